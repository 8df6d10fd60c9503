// Package catalog defines the ProPresenter tool catalog.
//
// # Overview
//
// Each file holds one pack of related tools, mirroring a group of the
// ProPresenter v1 API. A tool is a pure mapping from its arguments to one
// HTTP request, delegated to the propresenter client; the response flows
// back unchanged. The only exceptions are the by-name tools
// (trigger_macro_by_name, show_message_by_name), which resolve the target
// with one list request before triggering, and never trigger on a miss.
//
// # Packs
//
//	propresenter:presentation   slide navigation, presentation triggering
//	propresenter:announcements  announcement layer timeline
//	propresenter:clear          layer clearing, clear groups
//	propresenter:macros         macro triggering, by ID and by name
//	propresenter:timers         countdown timer control
//	propresenter:messages       overlay messages with token substitution
//	propresenter:audio          audio playlist playback
//	propresenter:video_inputs   video input switching
//	propresenter:props          prop show/clear
//	propresenter:stage          stage layouts and stage message
//	propresenter:looks          audience looks
//	propresenter:playlists      library playlists
//	propresenter:status         version, layer/slide status, capture
//
// Tools validate nothing the upstream API enforces itself; input parsing
// plus the handful of checks that prevent a nonsensical request (negative
// index, empty name) is all the logic a handler carries.
package catalog

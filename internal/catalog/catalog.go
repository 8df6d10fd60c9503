// ABOUTME: Assembles the full ProPresenter tool catalog from the per-group packs.
// ABOUTME: Defines the capability names tools require.

package catalog

import (
	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// CapabilityControl gates every tool that changes what is on screen.
// Read-only tools require no capability.
const CapabilityControl = "control"

// emptySchema is the input schema for tools that take no arguments.
const emptySchema = `{"type":"object","properties":{}}`

// Packs returns every tool pack in the catalog, bound to the given client.
func Packs(api *propresenter.Client) []*tools.Pack {
	return []*tools.Pack{
		PresentationPack(api),
		AnnouncementsPack(api),
		ClearPack(api),
		MacrosPack(api),
		TimersPack(api),
		MessagesPack(api),
		AudioPack(api),
		VideoInputsPack(api),
		PropsPack(api),
		StagePack(api),
		LooksPack(api),
		PlaylistsPack(api),
		StatusPack(api),
	}
}

// RegisterAll registers the complete catalog with the registry.
func RegisterAll(reg *tools.Registry, api *propresenter.Client) error {
	for _, pack := range Packs(api) {
		if err := reg.RegisterPack(pack); err != nil {
			return err
		}
	}
	return nil
}

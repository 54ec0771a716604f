// Package ecs provides ECS adapters for tether.
package ecs

import (
	"github.com/phanxgames/tether"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TipEventType is the Donburi event type for tether tip events. Subscribe to
// this in your ECS systems to receive shown, hidden and layout changes.
var TipEventType = events.NewEventType[tether.TipEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Tip events are published to TipEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) tether.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event tether.TipEvent) {
	TipEventType.Publish(s.world, event)
}

// Package ecs provides ECS adapters for tether's tip events.
//
// The primary adapter is [NewDonburiStore], which bridges tip visibility and
// layout changes into a [Donburi] world as typed events. Subscribe to
// [TipEventType] in your ECS systems to receive them.
//
// Usage:
//
//	bridge := ecs.NewDonburiStore(world)
//	store.SetEntityStore(bridge)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

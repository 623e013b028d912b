// Package link runs one integration request across every platform adapter
// of a host project.
//
// Each platform moves through NotDetected, Detected and then Linked or
// Failed. A failing or panicking adapter only fails its own platform;
// the remaining adapters still run. Android runs before iOS.
//
// Progress is published as [Event] values to handlers registered with
// [Orchestrator.Subscribe]:
//
//	sub := o.Subscribe(link.EventPatchResult, func(e link.Event) {
//	    fmt.Println(e.Platform, e.Patch.File, e.Patch.Result)
//	})
//	defer sub.Unsubscribe()
package link

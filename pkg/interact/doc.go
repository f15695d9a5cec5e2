// Package interact turns pointer input into view and simulation changes.
//
// The package keeps two kinds of interaction state apart:
//
//   - The view: a [Transform] (pan and zoom) changed through [Zoom]. It never
//     touches the simulation.
//   - Node manipulation: [Drag] pins a node to the pointer through the
//     [Pinner] interface and [Hover] tracks the tooltip for the node under
//     the pointer.
//
// Neither needs a rendering surface, so both are tested with plain values.
package interact

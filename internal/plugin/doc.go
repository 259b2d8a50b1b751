// Package plugin implements the script editor plugin the host loads.
//
// A Plugin declares its file types and editor kinds, creates editor
// instances on request and tracks every live instance in an
// instance.Store until it is closed or the plugin is unloaded.
//
// # Lifecycle
//
// A new Plugin is unloaded. OnLoad activates it; CreateEditor and the
// other instance operations require an active plugin. OnUnload tears down
// every live instance and returns the plugin to the unloaded state. A
// plugin may be loaded again afterwards; instance ids keep increasing.
//
// # Instances
//
// Each instance is a pair of handles onto one editor entity: the entity
// itself is the render handle (api.Panel) and a *Wrapper is the lifecycle
// handle (api.Instance). The host owns the panel; the plugin owns the
// wrapper. Entities are built by a Constructor registered per editor kind.
//
// # Concurrency
//
// Descriptor listing, instance creation and removal are safe from any
// goroutine. Entity mutation happens on the host's UI goroutine, which the
// *api.Context passed to each call identifies. The instance table lock is
// never held across entity calls.
package plugin

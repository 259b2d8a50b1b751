// Package api defines the contract between the script editor plugin and the
// host editor application.
//
// The host discovers the plugin through Plugin.Metadata, Plugin.FileTypes and
// Plugin.Editors, then asks it to open files with Plugin.CreateEditor. Each
// successful call returns two handles to the same editor entity:
//
//   - a Panel, which the host places in its layout and renders;
//   - an Instance, through which the host drives save, reload and
//     dirty-state queries.
//
// Mutating calls take a *Context, the execution context the host's UI
// framework requires. The plugin never hands the host its internal instance
// table, only these per-instance handles.
package api

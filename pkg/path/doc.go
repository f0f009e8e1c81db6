// Package path converts control names into tree paths and operates on
// the nested data trees those paths address.
//
// A path is derived purely from a control's name and index attributes;
// two scans of the same control always yield the same path regardless
// of where the control sits in the tree.
package path

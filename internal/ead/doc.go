// Package ead models an archival finding aid as a tree of fonds, series,
// file group, and file nodes, and parses that tree from EAD XML.
//
// The parser reads the fonds identity from the document header and then
// descends the component hierarchy, dispatching on the level/otherlevel
// attributes. Files missing an inventory number, or excluded by the
// optional selection filter, are dropped silently; missing container
// metadata is a hard error.
package ead

package ead

// Kind discriminates the archival node variants. The EAD level attributes
// map onto exactly one Kind during parsing; everything else is skipped.
type Kind int

const (
	KindFonds Kind = iota
	KindSeries
	KindFileGroup
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindFonds:
		return "fonds"
	case KindSeries:
		return "series"
	case KindFileGroup:
		return "filegrp"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Node is one unit in the archival hierarchy. Nodes are constructed by
// Parse and read-only afterwards.
//
// Code is the short identifier unique among siblings; it may contain
// spaces, which are normalized when output paths are derived. URI is the
// permalink when the finding aid provides one. Date is set for FileGroup
// and File nodes, METSID only for File nodes (empty means the file has no
// scans). Only File nodes are leaves; a container's Parts may legitimately
// be empty after filtering.
type Node struct {
	Kind   Kind
	Code   string
	Title  string
	URI    string
	Date   string
	METSID string
	Parts  []*Node
}

// IsLeaf reports whether the node is an archival file.
func (n *Node) IsLeaf() bool { return n.Kind == KindFile }

// Files returns every File leaf of the subtree in depth-first tree order.
func (n *Node) Files() []*Node {
	var files []*Node
	n.walkFiles(&files)
	return files
}

func (n *Node) walkFiles(out *[]*Node) {
	if n.Kind == KindFile {
		*out = append(*out, n)
		return
	}
	for _, part := range n.Parts {
		part.walkFiles(out)
	}
}

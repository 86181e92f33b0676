package mets

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// displayGroup is the fileSec group holding the displayable derivatives.
const displayGroup = "DISPLAY"

// fileIDSuffixLen is the length of the derivative suffix on fileSec file
// IDs ("IIP"); stripping it yields the structMap div ID.
const fileIDSuffixLen = 3

// parseScans extracts the ordered page scans from a raw METS document.
// For each display file the image service location is rewritten from the
// internal image-server path to the public IIIF Image API path, and the
// page filename is taken from the matching structMap div label.
func parseScans(data []byte) ([]Scan, error) {
	var doc metsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode mets: %w", err)
	}

	labels := make(map[string]string)
	collectDivLabels(doc.StructMap.Divs, labels)

	var scans []Scan
	for _, group := range doc.FileSec.Groups {
		if group.Use != displayGroup {
			continue
		}
		for _, file := range group.Files {
			if len(file.ID) <= fileIDSuffixLen {
				return nil, fmt.Errorf("mets file id %q too short", file.ID)
			}
			divID := file.ID[:len(file.ID)-fileIDSuffixLen]

			href, ok := file.locationURL()
			if !ok {
				return nil, fmt.Errorf("mets file %s: missing FLocat URL", file.ID)
			}
			serviceURL := strings.ReplaceAll(href, "/iip/", "/iipsrv?IIIF=/")

			label, ok := labels[divID]
			if !ok {
				return nil, fmt.Errorf("mets file %s: no structMap div %s", file.ID, divID)
			}
			fileName := label
			if idx := strings.LastIndex(label, "/"); idx >= 0 {
				fileName = label[idx+1:]
			}

			scans = append(scans, Scan{FileName: fileName, ImageServiceURL: serviceURL})
		}
	}

	return scans, nil
}

func collectDivLabels(divs []structDiv, out map[string]string) {
	for _, div := range divs {
		if div.ID != "" {
			out[div.ID] = div.Label
		}
		collectDivLabels(div.Divs, out)
	}
}

type metsDocument struct {
	XMLName xml.Name `xml:"mets"`
	FileSec struct {
		Groups []fileGrp `xml:"fileGrp"`
	} `xml:"fileSec"`
	StructMap struct {
		Divs []structDiv `xml:"div"`
	} `xml:"structMap"`
}

type fileGrp struct {
	Use   string     `xml:"USE,attr"`
	Files []metsFile `xml:"file"`
}

type metsFile struct {
	ID   string   `xml:"ID,attr"`
	Locs []fLocat `xml:"FLocat"`
}

func (f metsFile) locationURL() (string, bool) {
	for _, loc := range f.Locs {
		if loc.LocType == "URL" && strings.TrimSpace(loc.Href) != "" {
			return loc.Href, true
		}
	}
	return "", false
}

type fLocat struct {
	LocType string `xml:"LOCTYPE,attr"`
	Href    string `xml:"href,attr"`
}

type structDiv struct {
	ID    string      `xml:"ID,attr"`
	Label string      `xml:"LABEL,attr"`
	Divs  []structDiv `xml:"div"`
}

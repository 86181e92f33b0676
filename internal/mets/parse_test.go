package mets

import (
	"strings"
	"testing"
)

const sampleMETS = `<?xml version="1.0" encoding="UTF-8"?>
<mets xmlns="http://www.loc.gov/METS/" xmlns:xlink="http://www.w3.org/1999/xlink">
  <fileSec>
    <fileGrp USE="THUMBNAILS">
      <file ID="t0001THB">
        <FLocat LOCTYPE="URL" xlink:href="https://images.example.org/thumbs/0001.jpg"/>
      </file>
    </fileGrp>
    <fileGrp USE="DISPLAY">
      <file ID="d0001IIP">
        <FLocat LOCTYPE="URL" xlink:href="https://images.example.org/iip/archief/NL-HaNA_1.04.02_1120_0001.jp2/info.json"/>
      </file>
      <file ID="d0002IIP">
        <FLocat LOCTYPE="URL" xlink:href="https://images.example.org/iip/archief/NL-HaNA_1.04.02_1120_0002.jp2/info.json"/>
      </file>
    </fileGrp>
  </fileSec>
  <structMap>
    <div LABEL="root">
      <div ID="d0001" LABEL="archief/NL-HaNA_1.04.02_1120_0001.tif"/>
      <div ID="d0002" LABEL="archief/NL-HaNA_1.04.02_1120_0002.tif"/>
    </div>
  </structMap>
</mets>`

func TestParseScans(t *testing.T) {
	scans, err := parseScans([]byte(sampleMETS))
	if err != nil {
		t.Fatalf("parseScans failed: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("got %d scans, want 2", len(scans))
	}

	first := scans[0]
	if first.FileName != "NL-HaNA_1.04.02_1120_0001.tif" {
		t.Errorf("first filename = %q, want last label segment", first.FileName)
	}
	if want := "https://images.example.org/iipsrv?IIIF=/archief/NL-HaNA_1.04.02_1120_0001.jp2/info.json"; first.ImageServiceURL != want {
		t.Errorf("first service url = %q, want rewritten %q", first.ImageServiceURL, want)
	}

	// Order must follow the fileSec, which is page order.
	if scans[1].FileName != "NL-HaNA_1.04.02_1120_0002.tif" {
		t.Errorf("second filename = %q", scans[1].FileName)
	}
}

func TestParseScansSkipsNonDisplayGroups(t *testing.T) {
	scans, err := parseScans([]byte(sampleMETS))
	if err != nil {
		t.Fatalf("parseScans failed: %v", err)
	}
	for _, scan := range scans {
		if strings.Contains(scan.ImageServiceURL, "thumbs") {
			t.Errorf("thumbnail entry leaked into scans: %+v", scan)
		}
	}
}

func TestParseScansMissingDivIsError(t *testing.T) {
	doc := `<mets xmlns="http://www.loc.gov/METS/" xmlns:xlink="http://www.w3.org/1999/xlink">
  <fileSec>
    <fileGrp USE="DISPLAY">
      <file ID="d0001IIP">
        <FLocat LOCTYPE="URL" xlink:href="https://images.example.org/iip/a.jp2/info.json"/>
      </file>
    </fileGrp>
  </fileSec>
  <structMap><div LABEL="root"/></structMap>
</mets>`
	if _, err := parseScans([]byte(doc)); err == nil {
		t.Fatal("expected error when structMap div is missing")
	}
}

func TestParseScansMalformedXMLIsError(t *testing.T) {
	if _, err := parseScans([]byte("<mets><broken")); err == nil {
		t.Fatal("expected error for malformed METS")
	}
}

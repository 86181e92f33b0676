package inventory

import (
	"reflect"
	"testing"

	"iiifgen/internal/ead"
)

func TestAggregateGroupsByCode(t *testing.T) {
	fonds := &ead.Node{
		Kind: ead.KindFonds, Code: "1.04.02", Title: "VOC",
		Parts: []*ead.Node{
			{Kind: ead.KindSeries, Code: "A", Title: "Serie A", Parts: []*ead.Node{
				{Kind: ead.KindFile, Code: "1120", Title: "Resoluties deel 1", Date: "1602", URI: "http://hdl/1", METSID: "mets-a"},
				{Kind: ead.KindFile, Code: "7673", Title: "Brieven", Date: "1610", URI: "http://hdl/2", METSID: "mets-b"},
			}},
			{Kind: ead.KindSeries, Code: "B", Title: "Serie B", Parts: []*ead.Node{
				{Kind: ead.KindFile, Code: "1120", Title: "Resoluties deel 2", Date: "", URI: "", METSID: "mets-c"},
			}},
		},
	}

	records := Aggregate(fonds)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Code != "1120" {
		t.Errorf("first code = %q, want first-seen order", first.Code)
	}
	if !reflect.DeepEqual(first.Titles, []string{"Resoluties deel 1", "Resoluties deel 2"}) {
		t.Errorf("titles = %v", first.Titles)
	}
	if !reflect.DeepEqual(first.Dates, []string{"1602", ""}) {
		t.Errorf("dates = %v", first.Dates)
	}
	if !reflect.DeepEqual(first.URIs, []string{"http://hdl/1", ""}) {
		t.Errorf("uris = %v", first.URIs)
	}
	if first.METSID != "mets-c" {
		t.Errorf("metsid = %q, want last leaf to win", first.METSID)
	}

	second := records[1]
	if second.Code != "7673" || second.METSID != "mets-b" {
		t.Errorf("second record = %+v", second)
	}
}

func TestAggregateEmptyFonds(t *testing.T) {
	fonds := &ead.Node{Kind: ead.KindFonds, Code: "1.04.02", Title: "VOC"}
	if records := Aggregate(fonds); len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

package resource

import (
	"testing"

	"github.com/graphmesh/retrieval/internal/domain/label"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
)

func TestBuildHashFields(t *testing.T) {
	lbl := label.New("lbl-1", "Confidential", "#FF0000", "internal only", 3, true)
	res, err := domres.New("doc-1", "hello world", domres.TypeDriveItem,
		"https://contoso.example/doc-1",
		map[string]string{"author": "jane", "title": "Q3 report"}, lbl)
	if err != nil {
		t.Fatalf("make resource: %v", err)
	}

	m := buildHashFields(&res, []float32{0.5, -1.25})

	if m[fieldContent] != "hello world" {
		t.Errorf("content: %q", m[fieldContent])
	}
	if m[fieldType] != "driveItem" {
		t.Errorf("type: %q", m[fieldType])
	}
	if m[fieldWebURL] != "https://contoso.example/doc-1" {
		t.Errorf("webURL: %q", m[fieldWebURL])
	}
	if len(m[fieldVector]) != 8 {
		t.Errorf("vector bytes: %d", len(m[fieldVector]))
	}
	if m[metaPrefix+"author"] != "jane" || m[metaPrefix+"title"] != "Q3 report" {
		t.Errorf("metadata fields: author=%q title=%q", m[metaPrefix+"author"], m[metaPrefix+"title"])
	}
	if m[fieldLabel] == "" {
		t.Error("expected label field to be set")
	}
}

func TestBuildHashFields_OmitsEmptyOptionals(t *testing.T) {
	res, err := domres.New("doc-1", "content", domres.TypeMail, "", nil, label.Label{})
	if err != nil {
		t.Fatalf("make resource: %v", err)
	}

	m := buildHashFields(&res, nil)

	if _, ok := m[fieldWebURL]; ok {
		t.Error("empty webURL should not be stored")
	}
	if _, ok := m[fieldLabel]; ok {
		t.Error("zero label should not be stored")
	}
}

func TestParseHashFields_RoundTrip(t *testing.T) {
	lbl := label.New("lbl-1", "Confidential", "#FF0000", "internal only", 3, true)
	res, err := domres.New("doc-1", "hello world", domres.TypeDriveItem,
		"https://contoso.example/doc-1", map[string]string{"author": "jane"}, lbl)
	if err != nil {
		t.Fatalf("make resource: %v", err)
	}

	got := parseHashFields("doc-1", buildHashFields(&res, []float32{0.1}))

	if got.ID() != "doc-1" || got.Content() != "hello world" {
		t.Errorf("resource: id=%q content=%q", got.ID(), got.Content())
	}
	if got.Type() != domres.TypeDriveItem {
		t.Errorf("type: %q", got.Type())
	}
	if got.WebURL() != "https://contoso.example/doc-1" {
		t.Errorf("webURL: %q", got.WebURL())
	}
	if got.Metadata()["author"] != "jane" {
		t.Errorf("metadata: %v", got.Metadata())
	}

	gotLbl := got.Label()
	if gotLbl.ID() != "lbl-1" || gotLbl.DisplayName() != "Confidential" {
		t.Errorf("label: id=%q name=%q", gotLbl.ID(), gotLbl.DisplayName())
	}
	if gotLbl.Priority() != 3 || !gotLbl.IsEncrypted() {
		t.Errorf("label: priority=%d encrypted=%v", gotLbl.Priority(), gotLbl.IsEncrypted())
	}
}

func TestParseHashFields_EmptyTypeDefaultsSentinel(t *testing.T) {
	got := parseHashFields("doc-1", map[string]string{fieldContent: "text"})
	if got.Type() != domres.TypeUnknownFutureValue {
		t.Errorf("type: %q", got.Type())
	}
}

func TestParseHashFields_NoMetadataIsNil(t *testing.T) {
	got := parseHashFields("doc-1", map[string]string{fieldContent: "text"})
	if got.Metadata() != nil {
		t.Errorf("expected nil metadata, got %v", got.Metadata())
	}
}

func TestParseHashFields_CorruptLabelIgnored(t *testing.T) {
	got := parseHashFields("doc-1", map[string]string{
		fieldContent: "text",
		fieldLabel:   "{not json",
	})
	if !got.Label().IsZero() {
		t.Errorf("expected zero label for corrupt JSON, got %+v", got.Label())
	}
}

func TestVectorToBytes_LittleEndian(t *testing.T) {
	// 1.0 as little-endian IEEE 754: 00 00 80 3F
	got := vectorToBytes([]float32{1.0})
	if len(got) != 4 {
		t.Fatalf("length: %d", len(got))
	}
	if got[0] != 0x00 || got[1] != 0x00 || got[2] != 0x80 || got[3] != 0x3F {
		t.Errorf("bytes: % x", []byte(got))
	}
}

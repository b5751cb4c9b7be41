package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/breakline/dsl"
)

const sampleSheet = `
drawing Bracket v2 {
  meta {
    title: "Bracket ${part.number}"
    author: "ACME"
  }

  settings {
    style: structural
    gap: 0.8; symbols: 2; range: 60
  }

  sheet A3 landscape {
    // 主视图
    view Front {
      camera: front
      width: 180mm
      height: 60mm
      center: [150mm, 120mm]
    }
    view Aux {
      camera: auxiliary
      width: 40mm; height: 30mm
      center: [-5mm, 2cm]
      breaks: 1
    }
  }
}
`

func TestParseDrawing(t *testing.T) {
	doc, err := dsl.ParseString(sampleSheet)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Bracket" || doc.Revision != "v2" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Revision)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,settings,sheet" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	title := doc.Sections[0].Meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || title.Value.String == nil {
		t.Fatalf("expected title string, got %+v", doc.Sections[0].Meta.Block.Statements[0])
	}
	if got := string(*title.Value.String); !strings.Contains(got, "${part.number}") {
		t.Fatalf("title should keep placeholder, got %s", got)
	}

	settings := doc.Sections[1].Settings.Block.Statements
	if len(settings) != 4 {
		t.Fatalf("expected 4 settings assignments, got %d", len(settings))
	}
	style := settings[0].Assignment
	if style == nil || style.Value.Expr == nil || style.Value.Expr.Parts[0].Value != "structural" {
		t.Fatalf("style should be an expression, got %+v", settings[0])
	}
	if gap := settings[1].Assignment; gap == nil || gap.Value.Number == nil || *gap.Value.Number != "0.8" {
		t.Fatalf("unexpected gap: %+v", settings[1])
	}

	sheet := doc.Sections[2].Sheet
	if sheet.Spec.Size != "A3" || len(sheet.Spec.Params) != 1 || sheet.Spec.Params[0].Value != "landscape" {
		t.Fatalf("unexpected sheet spec: %+v", sheet.Spec)
	}
	if len(sheet.Block.Statements) != 2 {
		t.Fatalf("expected 2 views, got %d", len(sheet.Block.Statements))
	}

	front := sheet.Block.Statements[0].Command
	if front == nil || front.Name != "view" || len(front.Args) != 1 || front.Args[0].Value != "Front" {
		t.Fatalf("unexpected view command: %+v", sheet.Block.Statements[0])
	}
	if front.Block == nil || len(front.Block.Statements) != 4 {
		t.Fatalf("front view body missing statements")
	}
	center := front.Block.Statements[3].Assignment
	if center == nil || center.Value.Array == nil || len(center.Value.Array.Values) != 2 {
		t.Fatalf("center should be a 2-element array, got %+v", front.Block.Statements[3])
	}
	if got := *center.Value.Array.Values[0].Number; got != "150mm" {
		t.Fatalf("unexpected center x: %s", got)
	}

	aux := sheet.Block.Statements[1].Command
	auxCenter := aux.Block.Statements[3].Assignment
	if auxCenter == nil || auxCenter.Value.Array == nil {
		t.Fatalf("aux center missing: %+v", aux.Block.Statements[3])
	}
	neg := auxCenter.Value.Array.Values[0]
	if neg.Expr == nil || tokensToString(neg.Expr.Parts) != "- 5mm" {
		t.Fatalf("negative coordinate should be an expression, got %+v", neg)
	}
}

func TestParseRejectsMissingBrace(t *testing.T) {
	if _, err := dsl.ParseString("drawing X {\n sheet A4 {\n"); err == nil {
		t.Fatalf("expected error for unterminated drawing")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}

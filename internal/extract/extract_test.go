package extract

import (
	"testing"

	"github.com/opencatalog/researchd/internal/domain"
)

func textEvent(content string) domain.Event {
	return domain.NewEvent(domain.EventText, domain.TextPayload{Content: content})
}

func TestFencedBlockBeatsSurroundingProse(t *testing.T) {
	content := "Here is my final decomposition:\n\n```json\n{\"components\":[],\"confidence\":\"low\"}\n```\n\nLet me know if you need more detail."
	events := []domain.Event{textEvent(content)}

	result, ok := Result(events)
	if !ok {
		t.Fatal("expected a result")
	}
	if string(result) != `{"components":[],"confidence":"low"}` {
		t.Fatalf("unexpected result: %s", result)
	}
}

func TestBareJSONObject(t *testing.T) {
	events := []domain.Event{textEvent(`{"components":[{"component_type":"screw"}]}`)}

	result, ok := Result(events)
	if !ok {
		t.Fatal("expected a result")
	}
	if string(result) != `{"components":[{"component_type":"screw"}]}` {
		t.Fatalf("unexpected result: %s", result)
	}
}

func TestMostRecentParseableTextWins(t *testing.T) {
	events := []domain.Event{
		textEvent("```json\n{\"version\":1}\n```"),
		textEvent("Actually, let me revise that."),
		textEvent("```json\n{\"version\":2}\n```"),
	}

	result, ok := Result(events)
	if !ok {
		t.Fatal("expected a result")
	}
	if string(result) != `{"version":2}` {
		t.Fatalf("last parseable text should win, got: %s", result)
	}
}

func TestFallsBackPastUnparseableLaterText(t *testing.T) {
	events := []domain.Event{
		textEvent("```json\n{\"version\":1}\n```"),
		textEvent("```json\n{not valid json\n```"),
		textEvent("closing prose without any json"),
	}

	result, ok := Result(events)
	if !ok {
		t.Fatal("expected a result from the earlier event")
	}
	if string(result) != `{"version":1}` {
		t.Fatalf("unexpected result: %s", result)
	}
}

func TestNonObjectJSONRejected(t *testing.T) {
	events := []domain.Event{
		textEvent("```json\n[1,2,3]\n```"),
		textEvent(`"just a string"`),
	}

	if _, ok := Result(events); ok {
		t.Fatal("arrays and scalars are not valid results")
	}
}

func TestNoResultFound(t *testing.T) {
	events := []domain.Event{
		domain.NewEvent(domain.EventInit, domain.InitPayload{SessionID: "s1"}),
		textEvent("I could not find reliable pricing data."),
		domain.NewEvent(domain.EventToolUse, domain.ToolUsePayload{Name: "WebSearch"}),
	}

	if _, ok := Result(events); ok {
		t.Fatal("expected no result")
	}
	if _, ok := Result(nil); ok {
		t.Fatal("expected no result for empty events")
	}
}

func TestBareObjectWithTrailingProseRejected(t *testing.T) {
	events := []domain.Event{textEvent(`{"components":[]} and that is my answer`)}

	if _, ok := Result(events); ok {
		t.Fatal("object followed by prose is not a clean JSON block")
	}
}

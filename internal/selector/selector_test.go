package selector

import (
	"errors"
	"io"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/dockpick/dockpick/internal/model"
)

// scriptedAsk replies with the given answers in order.
func scriptedAsk(t *testing.T, answers []string, calls *int) AskFunc {
	return func(prompt survey.Prompt, response interface{}) error {
		if *calls >= len(answers) {
			t.Fatal("more prompts than scripted answers")
		}
		*response.(*string) = answers[*calls]
		*calls++
		return nil
	}
}

func rankedList(names ...string) []model.RankedEndpoint {
	out := []model.RankedEndpoint{}
	for _, name := range names {
		out = append(out, model.RankedEndpoint{Endpoint: model.Endpoint{Name: name}})
	}
	return out
}

func TestSelectorChoose(t *testing.T) {
	t.Run("valid index picks the endpoint", func(t *testing.T) {
		calls := 0
		sel := &Selector{Ask: scriptedAsk(t, []string{"2"}, &calls)}
		selection := sel.Choose(rankedList("one", "two", "three"))
		if selection.None() || selection.Endpoint.Endpoint.Name != "two" {
			t.Fatal("unexpected selection")
		}
	})

	t.Run("out of range then quit re-prompts then returns none", func(t *testing.T) {
		calls := 0
		sel := &Selector{Ask: scriptedAsk(t, []string{"9", "q"}, &calls)}
		selection := sel.Choose(rankedList("one", "two"))
		if !selection.None() {
			t.Fatal("expected no selection")
		}
		if calls != 2 {
			t.Fatal("expected exactly one re-prompt, got", calls)
		}
	})

	t.Run("non-numeric input re-prompts", func(t *testing.T) {
		calls := 0
		sel := &Selector{Ask: scriptedAsk(t, []string{"banana", "", "1"}, &calls)}
		selection := sel.Choose(rankedList("one"))
		if selection.None() || selection.Endpoint.Endpoint.Name != "one" {
			t.Fatal("unexpected selection")
		}
		if calls != 3 {
			t.Fatal("unexpected prompt count", calls)
		}
	})

	t.Run("empty ranked list returns none without prompting", func(t *testing.T) {
		sel := &Selector{Ask: func(prompt survey.Prompt, response interface{}) error {
			t.Fatal("should not prompt")
			return nil
		}}
		if selection := sel.Choose(nil); !selection.None() {
			t.Fatal("expected no selection")
		}
	})

	t.Run("interrupt returns none", func(t *testing.T) {
		sel := &Selector{Ask: func(prompt survey.Prompt, response interface{}) error {
			return terminal.InterruptErr
		}}
		if selection := sel.Choose(rankedList("one")); !selection.None() {
			t.Fatal("expected no selection")
		}
	})

	t.Run("end of input returns none", func(t *testing.T) {
		sel := &Selector{Ask: func(prompt survey.Prompt, response interface{}) error {
			return io.EOF
		}}
		if selection := sel.Choose(rankedList("one")); !selection.None() {
			t.Fatal("expected no selection")
		}
	})

	t.Run("zero skips only when allowed", func(t *testing.T) {
		calls := 0
		withSkip := &Selector{AllowSkip: true, Ask: scriptedAsk(t, []string{"0"}, &calls)}
		if selection := withSkip.Choose(rankedList("one")); !selection.None() {
			t.Fatal("expected skip to return none")
		}
		calls = 0
		withoutSkip := &Selector{Ask: scriptedAsk(t, []string{"0", "1"}, &calls)}
		selection := withoutSkip.Choose(rankedList("one"))
		if selection.None() || calls != 2 {
			t.Fatal("0 should be invalid input when skip is not allowed")
		}
	})

	t.Run("uppercase quit is accepted", func(t *testing.T) {
		calls := 0
		sel := &Selector{Ask: scriptedAsk(t, []string{" Q "}, &calls)}
		if selection := sel.Choose(rankedList("one")); !selection.None() {
			t.Fatal("expected no selection")
		}
	})
}

func TestSelectorConfirm(t *testing.T) {
	t.Run("yes", func(t *testing.T) {
		sel := &Selector{Ask: func(prompt survey.Prompt, response interface{}) error {
			*response.(*bool) = true
			return nil
		}}
		if !sel.Confirm("apply?") {
			t.Fatal("expected confirmation")
		}
	})

	t.Run("error counts as no", func(t *testing.T) {
		sel := &Selector{Ask: func(prompt survey.Prompt, response interface{}) error {
			return errors.New("mocked error")
		}}
		if sel.Confirm("apply?") {
			t.Fatal("expected rejection")
		}
	})
}

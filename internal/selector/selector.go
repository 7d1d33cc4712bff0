// Package selector implements the interactive endpoint choice.
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/apex/log"
	"github.com/dockpick/dockpick/internal/model"
)

// AskFunc asks a single question and fills response.
type AskFunc func(prompt survey.Prompt, response interface{}) error

// Selector prompts the operator to pick one endpoint out of a ranked list.
//
// The zero value prompts on the terminal via survey; set Ask to script
// answers in tests.
type Selector struct {
	// Ask OPTIONALLY overrides prompting.
	Ask AskFunc

	// AllowSkip additionally accepts "0" as an explicit keep-current
	// token, like the registry selector offers.
	AllowSkip bool
}

func (s *Selector) ask() AskFunc {
	if s.Ask != nil {
		return s.Ask
	}
	return func(prompt survey.Prompt, response interface{}) error {
		return survey.AskOne(prompt, response)
	}
}

// Choose returns the operator's selection. Invalid or out-of-range input
// re-prompts; "q", an interrupt, and end-of-input all return an empty
// selection. An empty ranked list returns an empty selection without
// prompting at all.
func (s *Selector) Choose(ranked []model.RankedEndpoint) model.Selection {
	if len(ranked) == 0 {
		return model.Selection{}
	}
	message := fmt.Sprintf("Enter number (1-%d) or 'q' to quit:", len(ranked))
	if s.AllowSkip {
		message = fmt.Sprintf("Enter number (1-%d), 0 to keep current, or 'q' to quit:", len(ranked))
	}
	for {
		var answer string
		if err := s.ask()(&survey.Input{Message: message}, &answer); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				log.Info("selection cancelled")
			}
			return model.Selection{}
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer == "q" {
			return model.Selection{}
		}
		if s.AllowSkip && answer == "0" {
			log.Info("keeping current configuration")
			return model.Selection{}
		}
		index, err := strconv.Atoi(answer)
		if err != nil || index < 1 || index > len(ranked) {
			log.Warnf("please enter a number between 1 and %d, or 'q' to quit", len(ranked))
			continue
		}
		chosen := ranked[index-1]
		return model.Selection{Endpoint: &chosen}
	}
}

// Confirm asks a yes/no question defaulting to no. Interrupt and
// end-of-input count as no.
func (s *Selector) Confirm(message string) bool {
	var yes bool
	if err := s.ask()(&survey.Confirm{Message: message}, &yes); err != nil {
		return false
	}
	return yes
}

package promptutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"schoolctl/models"
)

type Prompter interface {
	SelectSchool(schoolList []models.School) (*models.School, error)
	PromptForConfirmation(prompt string) bool
}

type RealPrompter struct{}

var ErrInterrupted = errors.New("operation interrupted")

func NewPrompt() Prompter {
	return &RealPrompter{}
}

func (p *RealPrompter) HandlePromptError(err error) error {
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			fmt.Println("\nReceived termination signal. Exiting.")
			return ErrInterrupted
		}
		return fmt.Errorf("failed to select an option: %w", err)
	}
	return nil
}

// SelectSchool lets the user pick a school from the directory list.
// Typing filters the list on name and id.
func (p *RealPrompter) SelectSchool(schoolList []models.School) (*models.School, error) {
	prompt := promptui.Select{
		Label: "Select your school",
		Items: schoolList,
		Size:  12,
		Templates: &promptui.SelectTemplates{
			Active:   "> {{ .Name }} ({{ .ID }})",
			Inactive: "  {{ .Name }} ({{ .ID }})",
			Selected: "{{ .Name }}",
		},
		Searcher: func(input string, index int) bool {
			school := schoolList[index]
			input = strings.ToLower(strings.TrimSpace(input))
			return strings.Contains(strings.ToLower(school.Name), input) ||
				strings.Contains(strings.ToLower(school.ID), input)
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	err = p.HandlePromptError(err)
	if err != nil {
		if errors.Is(err, ErrInterrupted) {
			return nil, ErrInterrupted
		}
		return nil, err
	}

	return &schoolList[idx], nil
}

func (p *RealPrompter) PromptForConfirmation(prompt string) bool {
	promptInstance := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	result, err := promptInstance.Run()
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(result), "y")
}

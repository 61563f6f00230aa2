package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
)

// promptDriver abstracts the terminal prompts so the session loop can be
// tested without a real terminal.
type promptDriver interface {
	Input(ctx context.Context, message, defaultValue string) (string, error)
	TextArea(ctx context.Context, message, defaultValue string) (string, error)
	Select(ctx context.Context, message string, options []string, defaultIndex int) (int, error)
	MultiSelect(ctx context.Context, message string, options []string, defaults []int) ([]int, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct{}

func (d *surveyDriver) Input(ctx context.Context, message, defaultValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, message, defaultValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) Select(ctx context.Context, message string, options []string, defaultIndex int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{Message: message, Options: options}
	if defaultIndex >= 0 && defaultIndex < len(options) {
		prompt.Default = options[defaultIndex]
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, err
	}
	return indexOf(options, out), nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, message string, options []string, defaults []int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{Message: message, Options: options}
	if len(defaults) > 0 {
		picked := make([]string, 0, len(defaults))
		for _, idx := range defaults {
			if idx >= 0 && idx < len(options) {
				picked = append(picked, options[idx])
			}
		}
		prompt.Default = picked
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return nil, err
	}
	return indicesOf(options, out), nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(os.Stdout, msg)
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

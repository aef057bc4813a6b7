// Package prompt collects a trip request interactively. The terminal work is
// behind the Driver interface so the collection rules can be tested without
// a TTY; only a fully filled request ever leaves this package.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/tripkit-labs/tripkit/internal/trip"
)

// ErrAborted is returned when the user cancels the dialog.
var ErrAborted = errors.New("prompt aborted")

// InputConfig configures a single-line text prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// Driver asks the user for input.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
}

// Collect fills in whatever fields of partial are missing. Fields already
// set are not asked again.
func Collect(ctx context.Context, d Driver, partial trip.Request) (trip.Request, error) {
	req := partial

	if strings.TrimSpace(req.Destination) == "" {
		v, err := d.Input(ctx, InputConfig{
			Message:   "Destination:",
			Help:      "Where you are going, e.g. Lisbon",
			Validator: required("destination"),
		})
		if err != nil {
			return trip.Request{}, err
		}
		req.Destination = v
	}

	if strings.TrimSpace(req.Month) == "" {
		v, err := d.Input(ctx, InputConfig{
			Message:   "Month:",
			Help:      "When you are going, e.g. June",
			Validator: required("month"),
		})
		if err != nil {
			return trip.Request{}, err
		}
		req.Month = v
	}

	if req.DurationDays == 0 {
		v, err := d.Input(ctx, InputConfig{
			Message:   "Duration in days (optional):",
			Validator: optionalDays,
		})
		if err != nil {
			return trip.Request{}, err
		}
		days, err := ParseDays(v)
		if err != nil {
			return trip.Request{}, err
		}
		req.DurationDays = days
	}

	// Drivers are expected to enforce validators, but never hand an
	// incomplete request to the caller.
	if err := req.Validate(); err != nil {
		return trip.Request{}, err
	}
	return req, nil
}

// ParseDays parses an optional duration. Empty input means not provided.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("duration must be a positive number of days, got %q", s)
	}
	return n, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func optionalDays(s string) error {
	_, err := ParseDays(s)
	return err
}

// SurveyDriver prompts on the terminal with survey.
type SurveyDriver struct {
	opts []survey.AskOpt
}

var _ Driver = (*SurveyDriver)(nil)

// NewSurveyDriver returns a driver; opts are passed to every survey.AskOne.
func NewSurveyDriver(opts ...survey.AskOpt) *SurveyDriver {
	return &SurveyDriver{opts: opts}
}

// Input implements Driver.
func (d *SurveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	p := &survey.Input{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	opts := append([]survey.AskOpt{}, d.opts...)
	if cfg.Validator != nil {
		validator := cfg.Validator
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validator(s)
		}))
	}
	if err := survey.AskOne(p, &out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", err
	}
	return out, nil
}

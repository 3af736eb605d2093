// Package flow sequences the tabs of the application editor.
//
// Navigation is never gated on validity: GoNext always advances and GoTo
// may jump anywhere, so a user can fill tabs in any order and the server
// stays the final validator. StepIssues exposes the client-side checks
// per tab for display only.
package flow

import (
	"slices"

	"github.com/dmitrijs2005/cargodesk/internal/client/draft"
)

type Step string

const (
	StepBasicInfo   Step = "basic"
	StepDeclaration Step = "declaration"
	StepServices    Step = "services"
	StepPhotos      Step = "photos"
	StepProducts    Step = "products"
	StepTransport   Step = "transport"
	StepModes       Step = "modes"
)

type Action string

const (
	ActionNext   Action = "next"
	ActionSubmit Action = "submit"
)

var (
	createSteps = []Step{StepBasicInfo, StepDeclaration, StepServices, StepPhotos, StepProducts, StepTransport, StepModes}
	editSteps   = []Step{StepBasicInfo, StepDeclaration, StepServices, StepTransport, StepModes}
)

// stepFields maps a tab to the payload fields it edits.
var stepFields = map[Step][]string{
	StepBasicInfo:   {draft.FieldFirmID, draft.FieldBrutto, draft.FieldNetto, draft.FieldComingDate, draft.FieldPaymentMethodID},
	StepDeclaration: {draft.FieldDeclarationNumber, draft.FieldDeclarationDate, draft.FieldDeclarationFile},
	StepServices:    {draft.FieldKeepingServices, draft.FieldWorkingServices},
	StepPhotos:      {draft.FieldPhotos},
	StepProducts:    {draft.FieldProducts},
	StepTransport:   {draft.FieldTransports},
	StepModes:       {draft.FieldModes},
}

// Controller holds the current step index over a fixed list of steps.
type Controller struct {
	steps      []Step
	current    int
	postSubmit Step
}

// New returns a controller for the given draft mode, positioned on the
// first step. The create flow jumps to the photos tab after a submit.
func New(mode draft.Mode) *Controller {
	if mode == draft.ModeEdit {
		return &Controller{steps: editSteps}
	}
	return &Controller{steps: createSteps, postSubmit: StepPhotos}
}

func (c *Controller) Steps() []Step {
	return slices.Clone(c.steps)
}

func (c *Controller) Index() int {
	return c.current
}

func (c *Controller) Current() Step {
	return c.steps[c.current]
}

func (c *Controller) IsTerminal() bool {
	return c.current == len(c.steps)-1
}

// PrimaryAction is Submit on the terminal step and Next everywhere else.
func (c *Controller) PrimaryAction() Action {
	if c.IsTerminal() {
		return ActionSubmit
	}
	return ActionNext
}

// GoNext advances one step. It reports false on the terminal step.
func (c *Controller) GoNext() bool {
	if c.IsTerminal() {
		return false
	}
	c.current++
	return true
}

// GoBack moves one step back. It reports false on the first step.
func (c *Controller) GoBack() bool {
	if c.current == 0 {
		return false
	}
	c.current--
	return true
}

// GoTo jumps to index i. It reports false when i is out of range.
func (c *Controller) GoTo(i int) bool {
	if i < 0 || i >= len(c.steps) {
		return false
	}
	c.current = i
	return true
}

// GoToStep jumps to the named step if the flow contains it.
func (c *Controller) GoToStep(s Step) bool {
	return c.GoTo(slices.Index(c.steps, s))
}

// AfterSubmit applies the post-submission transition. It reports whether
// the controller moved.
func (c *Controller) AfterSubmit() bool {
	if c.postSubmit == "" {
		return false
	}
	return c.GoToStep(c.postSubmit)
}

// StepIssues returns the validation issues that belong to step s.
func StepIssues(d draft.Draft, s Step) []draft.Issue {
	owned := stepFields[s]
	var out []draft.Issue
	for _, issue := range draft.Validate(d) {
		if slices.Contains(owned, issue.Field) {
			out = append(out, issue)
		}
	}
	return out
}

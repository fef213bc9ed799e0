package animate

import "github.com/Zachkp/portfolio/internal/dom"

// ContactState is the state of the contact form's submit affordance.
type ContactState int

const (
	Idle ContactState = iota
	Confirming
)

func (s ContactState) String() string {
	if s == Confirming {
		return "confirming"
	}
	return "idle"
}

// The form never leaves the page: submitting only swaps the button for a
// confirmation, then restores it and clears the fields.
const confirmMarkup = `<ion-icon name="checkmark-circle-outline" class="text-xl"></ion-icon> Message Sent Successfully!`

var (
	pendingClasses = []string{"bg-gradient-to-r", "from-accent", "to-pink-500"}
	confirmClasses = []string{"bg-green-500"}
)

type contactBinding struct {
	state ContactState
}

// ContactState reports the contact form state; Idle when no form is bound.
func (c *Controller) ContactState() ContactState {
	if c.contact == nil {
		return Idle
	}
	return c.contact.state
}

func (c *Controller) bindContact(root dom.Element) {
	form := root.QuerySelector(ContactForm)
	if form == nil {
		return
	}
	button := form.QuerySelector(`button[type="submit"]`)
	h := c.track(Confirmation)
	b := &contactBinding{}
	c.contact = b
	h.release = func() { b.state = Idle }

	form.AddEventListener("submit", func(e *dom.Event) {
		e.PreventDefault()
		if !h.Live() || b.state == Confirming {
			return
		}
		b.state = Confirming

		var original string
		if button != nil {
			original = button.InnerHTML()
			_ = button.SetInnerHTML(confirmMarkup)
			button.AddClass(confirmClasses...)
			button.RemoveClass(pendingClasses...)
		}

		h.timer = c.sched.AfterFunc(c.cfg.ConfirmFor, func() {
			if !h.Live() {
				return
			}
			if button != nil {
				_ = button.SetInnerHTML(original)
				button.RemoveClass(confirmClasses...)
				button.AddClass(pendingClasses...)
			}
			for _, field := range form.QuerySelectorAll("input, textarea") {
				field.SetValue("")
			}
			b.state = Idle
			h.timer = nil
		})
	})
}

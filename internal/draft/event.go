package draft

// Event is the static listing shown on the selection and confirmation screens.
// It is not derived from the draft.
type Event struct {
	Name     string
	Tagline  string
	Location string
	When     string
}

var Techember = Event{
	Name:     "Techember Fest 25",
	Tagline:  "Join us for an unforgettable experience at Techember Fest 25! Secure your spot now.",
	Location: "Jos, Nigeria",
	When:     "March 15, 2025 | 7:00 PM",
}

package model

import "fmt"

// Status is the review state of a homework as reported by Practicum.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable text for s and whether s is known.
func Verdict(s Status) (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// Homework is a single entry of the "homeworks" list.
type Homework struct {
	Name   string
	Status Status
}

// Message renders the chat notification for h. The status must be known.
func (h Homework) Message() string {
	verdict, _ := Verdict(h.Status)
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", h.Name, verdict)
}

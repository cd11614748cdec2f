package recommend

import "fmt"

// Fixed texts sent around a batch of recommendations.
const (
	ProgressText     = "Espere um pouco que estou procurando uma aula para te indicar."
	AnnouncementText = "Aqui estão algumas aulas que podem te ajudar:"
)

// Recommendation is one lesson suggested for a doubt.
type Recommendation struct {
	ModuleIndex int
	ModuleName  string
	Lesson      string
	Duration    string
	Link        string
	Distance    float64
}

// Text renders the recommendation block shown to the student.
func (r Recommendation) Text() string {
	return fmt.Sprintf("Recomendo a seguinte aula: %s, que está no módulo %s, e tem duração %s. Link: %s.",
		r.Lesson, r.ModuleName, r.Duration, r.Link)
}

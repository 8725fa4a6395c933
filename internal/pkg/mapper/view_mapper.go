package mapper

import (
	"github.com/infinity-exam/quizfront/internal/backend"
	"github.com/infinity-exam/quizfront/internal/delivery/http/entity"
	"github.com/infinity-exam/quizfront/internal/state"
)

// ToTestingView - assemble the testing page model from the attempt view
func ToTestingView(attemptID uint64, email string, position int, questions []backend.Question, view *state.AttemptView, dialogue string, dialogueErr string) entity.TestingView {
	nav := make([]entity.QuestionNav, len(questions))
	for i := range questions {
		nav[i] = entity.QuestionNav{
			Position: i + 1,
			Active:   i+1 == position,
			Answered: view.Answered(i + 1),
		}
	}

	question := questions[position-1]
	answerText, answered := view.AnswerText(question.ID)

	transcript := view.Transcript()
	lines := make([]entity.TranscriptLine, len(transcript))
	for i, entry := range transcript {
		lines[i] = entity.TranscriptLine{
			FromUser: entry.Speaker == state.SpeakerUser,
			Text:     entry.Text,
		}
	}

	return entity.TestingView{
		AttemptID:     attemptID,
		UserEmail:     email,
		Position:      position,
		Total:         len(questions),
		QuestionText:  question.Text,
		Answered:      answered,
		AnswerText:    answerText,
		Nav:           nav,
		Transcript:    lines,
		ChatEnabled:   dialogue != "",
		DialogueError: dialogueErr,
		Flash:         view.TakeFlash(),
		IsLast:        position == len(questions),
	}
}

// ToResultView - pair scored answers with their question texts
func ToResultView(attemptID uint64, result *backend.Result, questions []backend.Question) entity.ResultView {
	textByID := make(map[uint64]string, len(questions))
	numberByID := make(map[uint64]int, len(questions))
	for i, q := range questions {
		textByID[q.ID] = q.Text
		numberByID[q.ID] = i + 1
	}

	answers := make([]entity.ResultAnswerView, len(result.Answers))
	for i, a := range result.Answers {
		number := numberByID[a.QuestionID]
		if number == 0 {
			number = i + 1
		}
		answers[i] = entity.ResultAnswerView{
			Number:       number,
			QuestionText: textByID[a.QuestionID],
			Text:         a.Text,
			Correct:      a.Correct,
		}
	}

	return entity.ResultView{
		AttemptID: attemptID,
		Score:     result.Score,
		MaxScore:  100,
		Answers:   answers,
	}
}

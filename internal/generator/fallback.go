package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/surveyforge/survey-service/internal/models"
)

// Fallback synthesizes a questionnaire without any external dependency. It is
// fully deterministic: n questions rotating through the four question types in
// fixed order, sequential ids, options derived from each type. Used whenever
// the primary generator is unconfigured or fails.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

type stockTexts struct {
	title     func(goal string) string
	introText string
	prompts   map[models.QuestionType][]string
}

var englishTexts = stockTexts{
	title: func(goal string) string {
		if goal == "" {
			return "Feedback Survey"
		}
		return goal + " Survey"
	},
	introText: "Thanks for taking part in this survey. It should take about 3-5 minutes to complete.",
	prompts: map[models.QuestionType][]string{
		models.SingleChoice: {
			"How satisfied are you with your overall experience?",
			"How often do you use the product?",
		},
		models.MultipleChoice: {
			"Which aspects matter most to you?",
			"Which features have you used recently?",
		},
		models.Rating: {
			"How likely are you to recommend us to a friend?",
			"How would you rate the ease of getting started?",
		},
		models.ShortText: {
			"What should we improve first?",
			"Anything else you would like to tell us?",
		},
	},
}

var chineseTexts = stockTexts{
	title: func(goal string) string {
		if goal == "" {
			return "调研问卷"
		}
		return goal + "问卷"
	},
	introText: "感谢参与本次调研，问卷大约需要 3-5 分钟完成。",
	prompts: map[models.QuestionType][]string{
		models.SingleChoice: {
			"您对当前体验的整体满意度是？",
			"您使用该产品的频率是？",
		},
		models.MultipleChoice: {
			"您最看重的功能点是？",
			"您最近使用过哪些功能？",
		},
		models.Rating: {
			"您愿意推荐给朋友的可能性有多大？",
			"您对上手难易程度的评分是？",
		},
		models.ShortText: {
			"您希望我们优先改进的地方是？",
			"还有哪些建议或需求想告诉我们？",
		},
	},
}

func textsFor(language string) stockTexts {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(language)), "zh") {
		return chineseTexts
	}
	return englishTexts
}

func (g *Fallback) Generate(_ context.Context, req *models.GenerationRequest) (*models.Questionnaire, error) {
	texts := textsFor(req.Language)

	count := req.QuestionCount
	if count < 1 {
		count = 1
	}

	questions := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		qType := models.QuestionTypes[i%len(models.QuestionTypes)]
		prompts := texts.prompts[qType]
		questions = append(questions, models.Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Type:    qType,
			Text:    prompts[(i/len(models.QuestionTypes))%len(prompts)],
			Options: models.DefaultOptions(qType),
		})
	}

	return &models.Questionnaire{
		Title:     texts.title(strings.TrimSpace(req.Goal)),
		Intro:     texts.introText,
		Questions: questions,
	}, nil
}

package llm

import (
	"encoding/json"
	"fmt"
)

// DefaultTemplate returns the static proposal template used as the editing
// starting point and as the fallback when generation is unavailable.
func DefaultTemplate() map[string]interface{} {
	return map[string]interface{}{
		"introduction":  "Thank you for posting this project. I have carefully reviewed your requirements and I am excited to work on this project.",
		"understanding": "Based on your project description, I understand that you need...",
		"proposed_solution": map[string]interface{}{
			"approach":     "I will follow a systematic approach to deliver high-quality results:",
			"methodology":  "My methodology includes thorough planning, regular communication, and quality assurance.",
			"deliverables": "You will receive complete, tested, and documented solution.",
		},
		"timeline": map[string]interface{}{
			"phase_1": "Analysis and Planning - 2 days",
			"phase_2": "Implementation - 7-10 days",
			"phase_3": "Testing and Refinement - 2-3 days",
			"phase_4": "Final Delivery - 1 day",
		},
		"budget": map[string]interface{}{
			"total":             "Competitive pricing based on project scope",
			"payment_terms":     "Milestone-based payments preferred",
			"value_proposition": "Quality work at reasonable rates",
		},
		"why_choose_us":      "With extensive experience and commitment to quality, I ensure timely delivery and excellent communication throughout the project.",
		"portfolio_examples": "I have successfully completed similar projects with 100% client satisfaction. Portfolio examples available upon request.",
		"questions":          "I would like to discuss the project requirements in more detail. Are there any specific preferences or constraints I should be aware of?",
	}
}

// fallbackTemplate is the default template tailored with the project
// description.
func fallbackTemplate(projectDescription string) json.RawMessage {
	template := DefaultTemplate()
	template["understanding"] = fmt.Sprintf("Based on your project description, I understand that you need: %s", projectDescription)

	data, err := json.Marshal(template)
	if err != nil {
		// The static template always marshals; this is unreachable.
		panic(err)
	}

	return data
}

// revisedFallback annotates the existing content with the revision inputs
// when regeneration is unavailable.
func revisedFallback(current json.RawMessage, recommendations, bdResponse string) json.RawMessage {
	var template map[string]interface{}

	if err := json.Unmarshal(current, &template); err != nil || template == nil {
		template = DefaultTemplate()
	}

	template["revision_notes"] = map[string]interface{}{
		"admin_recommendations": recommendations,
		"bd_response":           bdResponse,
	}

	data, err := json.Marshal(template)
	if err != nil {
		panic(err)
	}

	return data
}

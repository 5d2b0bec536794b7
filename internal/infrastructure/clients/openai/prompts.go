package openai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const medicineSystemPrompt = `You are a pharmacy information assistant for patients in Ethiopia. Return ONLY valid JSON with this schema:
{
  "generic_class": string (drug class, short),
  "description": string (1-2 short sentences, simple language),
  "uses": string[] (2-5 items),
  "side_effects": string[] (2-5 common side effects),
  "warnings": string[] (1-4 important precautions)
}
Keep language simple and non-alarmist. Do not give dosing instructions or a diagnosis. If the name is not a medicine, return an empty description.`

type medicinePayload struct {
	GenericClass string   `json:"generic_class"`
	Description  string   `json:"description"`
	Uses         []string `json:"uses"`
	SideEffects  []string `json:"side_effects"`
	Warnings     []string `json:"warnings"`
}

func buildMedicineUserPrompt(name string) string {
	return fmt.Sprintf("Medicine name: %s\n", name)
}

func parseMedicinePayload(data []byte) (*medicinePayload, error) {
	var payload medicinePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse medicine payload: %w", err)
	}
	if strings.TrimSpace(payload.Description) == "" {
		return nil, fmt.Errorf("medicine payload has no description")
	}
	return &payload, nil
}

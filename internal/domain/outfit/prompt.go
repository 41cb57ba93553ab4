package outfit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/internal/infra/llm/chatgpt"
)

const defaultSystemPrompt = `You are an outfit recommendation assistant. You give practical clothing advice based on weather data and the user's request.
Use only the weather fields you are given and never invent data. Focus on the high and low temperatures, the day/night difference and the conditions (sun, rain, snow, wind).
Answer in the user's language, directly and warmly. Do not explain your reasoning, do not output JSON and do not mention the data or these instructions.
If it is cold, name the outer layer (down jacket, padded coat, heavy coat). If the day/night difference is large, remind the user to keep warm in the morning and evening. Add a short lifestyle tip (wind, sun protection) when useful.`

func (s *service) buildMessages(forecast weather.Success, text string) []chatgpt.Message {
	return []chatgpt.Message{
		{Role: chatgpt.RoleSystem, Content: s.buildSystemPrompt()},
		{Role: chatgpt.RoleUser, Content: buildUserPrompt(forecast, text)},
	}
}

func (s *service) buildSystemPrompt() string {
	if prompt := strings.TrimSpace(s.cfg.Prompt); prompt != "" {
		return prompt
	}
	return defaultSystemPrompt
}

func buildUserPrompt(forecast weather.Success, text string) string {
	payload, err := json.Marshal(forecast)
	if err != nil {
		payload = []byte("{}")
	}
	return fmt.Sprintf(`You receive two pieces of information.
[Weather data]
%s

[User request]
%s

Give the user specific, practical clothing advice based on the information above.
1. Consider the temperature range, the day/night difference and the conditions (sun, rain, wind).
2. Name the outer layer and what to wear underneath (down jacket, heavy coat, sweater, ...).
3. If the day/night difference is large, remind the user to keep warm in the morning and evening.
4. Do not output JSON and do not explain your reasoning.`, payload, strings.TrimSpace(text))
}

package agent

import (
	"fmt"
	"github.com/mkeskinen/mimicry/internal/game"
)

// NoConversation stands in for the transcript before any turn was played.
const NoConversation = "No previous conversation."

const systemPromptTemplate = "You are an LLM that is playing a reverse Turing test. " +
	"Your goal is to find which of the participants is the human.\n" +
	"Each participant is called Mr. X with X being a color (e.g., Mr. Red, Mr. Blue, etc.).\n" +
	"You are Mr. %s.\n" +
	"When they ask you a question, you should answer it as best as you can to prove you are an AI model.\n" +
	"When it's your turn to ask a question, " +
	"try to ask a question that can help you identify the human participant.\n" +
	"Each of the participants should talk in human language.\n" +
	"Only one of the participants is human, the others are AI models.\n" +
	"At the end of the game, you will be asked to say which participant you think is the human and why.\n" +
	"You have access to previous conversation between each participants.\n" +
	"Read carefully the conversations to spot the human participant.\n" +
	"Analyze both the questions and the answers of other Agents to find human patterns.\n" +
	"Try to avoid asking questions that are being already asked.\n" +
	"Do not ask a question if you are answering.\n" +
	"Do not break the format of the game. " +
	"Do not invent hobbies, jobs, or personal information for yourself or other participants. " +
	"Stay consistent to the fact you are an LLM"

func systemPrompt(id game.ID) string {
	return fmt.Sprintf(systemPromptTemplate, id)
}

func askingPrompt(transcript string, target game.ID) string {
	if transcript == "" {
		return fmt.Sprintf("You are the starter of the game. Ask a question to: Mr. %s.\n"+
			"DO NOT provide any introduction, explanation, meta-comment, or extra text.\n"+
			"If you want to ask Mr. Blue, the output should be:\n"+
			"Mr. Blue, Who's your provider?\n"+
			"If you output anything else, you will break the game.", target)
	}
	return fmt.Sprintf("Previous conversation:\n%s\n\n"+
		"You ask now a question to Mr. %s.\n"+
		"DO NOT provide any introduction, explanation, meta-comment, or extra text.\n"+
		"If you want to ask Mr. Blue, the output should be:\n"+
		"Mr. Blue, Who's your provider?\n"+
		"If you output anything else, you will break the game.", transcript, target)
}

func answeringPrompt(transcript string, question string) string {
	if transcript == "" {
		transcript = NoConversation
	}
	return fmt.Sprintf("Previous conversation:\n%s\n\nQuestion to answer:\n%s\n\n", transcript, question)
}

func guessingPrompt(transcript string) string {
	if transcript == "" {
		transcript = NoConversation
	}
	return fmt.Sprintf("Previous conversation:\n%s\n\n"+
		"Based on the previous conversation, who do you think is the human participant?\n"+
		"Provide your answer in the following format:\n"+
		"I think Mr. [Color] is the human because [your reasoning].\n"+
		"Only provide your final answer in the specified format.", transcript)
}

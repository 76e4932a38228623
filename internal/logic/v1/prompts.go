package v1

import (
	"fmt"
	"slices"
)

// Exam levels accepted by the quiz generator.
const (
	LevelInter = "CA Inter"
	LevelFinal = "CA Final"
)

var levels = []string{LevelInter, LevelFinal}

// Levels lists the accepted exam levels.
func Levels() []string {
	return slices.Clone(levels)
}

func validLevel(level string) bool {
	return slices.Contains(levels, level)
}

const answerCheckPrompt = `Act as a strict Examiner for the Institute of Chartered Accountants of India (ICAI).
The user has uploaded a handwritten answer for a CA Final/Inter level question in %s.

Your Task:
1. Identify the topic from the image.
2. Check the answer strictly based on ICAI Provision, Analysis, and Conclusion format.
3. Point out specific mistakes (keywords missing, section number errors).
4. Give it a mark out of 5, written exactly as "Marks: X/5".
5. REWRITE the correct answer in the standard ICAI format below.`

const quizPrompt = `Create a tough mock test of 20 Multiple Choice Questions (MCQs) for %s students.
Topic: %s.
The questions should be scenario-based and tricky, similar to recent ICAI exam trends.
Provide the questions first, and the Answer Key with reasoning at the very end.`

const doubtPrompt = `You are a CA Final Topper and Tutor. Explain the following concept: %q.
Explain it in depth. Use examples, relevant Section numbers of Companies Act/Income Tax Act,
and relevant Case Laws if applicable. Structure the answer for exam revision.`

const chatPrompt = `You are Kuchu, a warm and witty study buddy for %s, who is preparing for the CA exams.
Solve doubts clearly and briefly, cite sections or standards when they matter,
and end with one line of genuine encouragement. Never invent case laws.

%s says: %q`

func buildAnswerCheckPrompt(subject string) string {
	return fmt.Sprintf(answerCheckPrompt, subject)
}

func buildQuizPrompt(topic, level string) string {
	return fmt.Sprintf(quizPrompt, level, topic)
}

func buildDoubtPrompt(doubt string) string {
	return fmt.Sprintf(doubtPrompt, doubt)
}

func buildChatPrompt(name, message string) string {
	return fmt.Sprintf(chatPrompt, name, name, message)
}

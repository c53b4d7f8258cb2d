package engine

import "fmt"

// SummaryPrompt builds the two-part study guide prompt. The scope narrows
// the summary to a unit or chapter; an empty scope covers the whole document.
func SummaryPrompt(scope string) string {
	if scope == "" {
		scope = "Whole Document"
	}
	return fmt.Sprintf(`You are an academic assistant.

TARGET SCOPE: %q.

TASK: Generate a strictly structured study guide from the attached document (PDF, Word, or PowerPoint).

LANGUAGE REQUIREMENT:
- Detect the primary language of the document.
- Generate the summary, headings, and all content in the EXACT SAME LANGUAGE as the document.
- Use the EXACT TERMINOLOGY found in the document/slides. Do not paraphrase key terms.

METHODOLOGY:
You must split the summary into exactly two distinct parts.

===============================================================
PART 1: THEORETICAL SUMMARY
Heading: Use a translated version of "Theoretical Summary" in the document's language.

- Extract key definitions, concepts, and theories.
- Keep it general and descriptive.

===============================================================
PART 2: PRACTICAL LAWS & FORMULAS
Heading: Use a translated version of "Practical Laws & Formulas" in the document's language.

STRICT RULES FOR PART 2 (ZERO TOLERANCE):
1. ABSOLUTELY NO NUMBERS. Do NOT provide numerical examples. Do NOT solve problems.
2. ONLY ABSTRACT FORMULAS. (e.g. write "$$F = m \times a$$", DO NOT write "$$F = 5 \times 10$$").
3. VERBATIM COPY: Copy the formula EXACTLY as it appears in the slide.
4. SYMBOL LEGEND: You MUST list the meaning of every symbol in the formula EXACTLY as found in the slide.

Format for Part 2:
* **Law:** (Translate "Law" to the document's language) $$[Formula]$$
  - $$[Symbol]$$: [Definition from slide]

If there are NO math formulas in the text, DO NOT generate Part 2.
===============================================================

MATH FORMATTING (CRITICAL):
- You MUST use double dollar signs ($$) for ALL mathematical expressions, both inline and block.
- NEVER use single dollar signs ($) for math; reserve them for currency only.`, scope)
}

// QuizPrompt builds the multiple-choice quiz prompt for a given scope.
func QuizPrompt(scope string) string {
	if scope == "" {
		scope = "All"
	}
	return fmt.Sprintf(`Analyze the attached document carefully. It could be a PDF, Word document, or PowerPoint presentation.
Create a multiple-choice quiz with exactly 10 questions.

LANGUAGE REQUIREMENT:
- Detect the primary language of the document.
- The output MUST be in the EXACT SAME LANGUAGE as the document (e.g., if it's French, use French; if it's Arabic, use Arabic).

User preference for content: %q.
If the user specified a specific Unit or Chapter, strictly focus on that section.
If they said "All" or left it empty, cover the entire document evenly.

For each question, provide:
1. The question text.
2. 3 distinct options.
3. The index of the correct answer (0, 1, or 2).
4. A justification/explanation suitable for a student.
5. A concrete, real-world example to help understanding.

Respond in valid JSON matching the schema.`, scope)
}

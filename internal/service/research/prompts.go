package research

import (
	"fmt"
	"strings"

	"github.com/w-h-a/research/retriever"
	websearcher "github.com/w-h-a/research/web_searcher"
)

func answerPrompt(context, question string) string {
	if len(strings.TrimSpace(context)) == 0 {
		return fmt.Sprintf("Question: %s\n\nAnswer the question clearly and concisely.", question)
	}
	return fmt.Sprintf(
		"Context:\n%s\n\nQuestion: %s\n\nAnswer the question based on the context provided. If the answer is not in the context, use your general knowledge.",
		context, question,
	)
}

func summaryPrompt(text string) string {
	return fmt.Sprintf("Please provide a concise summary of the following text:\n\n%s", text)
}

func comparePrompt(texts []string) string {
	return fmt.Sprintf(
		"Compare the following papers (separated by ---) and highlight key similarities and differences:\n\n%s",
		strings.Join(texts, "\n\n---\n\n"),
	)
}

func insightPrompt(topic string) string {
	return fmt.Sprintf("Provide a key research insight or trend regarding: %s", topic)
}

// internalMatches renders the local corpus hits handed to the forensic prompt.
func internalMatches(matches []retriever.Result) string {
	if len(matches) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Matches found in our internal database:\n")
	for _, m := range matches {
		fmt.Fprintf(&sb, "- Source: %s (Similarity: %v%%)\n  Snippet: %s\n", m.Source, m.Score, m.Content)
	}
	return sb.String()
}

func forensicPrompt(text, internal string) string {
	return fmt.Sprintf(`Act as a Forensic Linguistic Auditor and Expert AI Detector.
Analyze the text below for stylistic markers of Large Language Models and for likely matches with published work.

%s

Evaluation criteria:
1. Perplexity Index: how predictable the word sequences are. Low perplexity suggests AI.
2. Burstiness Score: variance in sentence length and structure. Low burstiness suggests AI.
3. N-Gram Probability: phrases and transitions that language models favour.
4. Forensic Web-Crosscheck: compare against Google Scholar, ArXiv and academic student archives.
5. Citation Integrity: flag citations that look too perfect or hallucinated.

Return the result ONLY as a valid JSON object with this structure:
{
    "originality_score": <int 0-100>,
    "plagiarism_score": <int 0-100>,
    "ai_detection_score": <int 0-100>,
    "perplexity": "Low / Medium / High",
    "burstiness": "Low / Medium / High",
    "flagged_segments": ["precise segment matched"],
    "citation_report": [{ "citation": "...", "status": "...", "reason": "..." }],
    "web_matches": [{ "source": "...", "match_percentage": <int> }],
    "assessment": "<detailed assessment>"
}

Constraint: The sum of scores MUST equal exactly 100.

Text to analyze:
%s`, internal, text)
}

func graphPrompt(text string) string {
	return fmt.Sprintf(`Act as an Advanced Knowledge Architect. Extract a knowledge graph from the academic text below.

Focus on key concepts, theories and models, methodologies (all nodes) and the relationships or influences between them (edges).

TEXT SNIPPET:
%s

Return ONLY a JSON object with this structure:
{
    "nodes": [{ "id": "1", "label": "Concept Name", "type": "theory/concept/method/entity" }],
    "edges": [{ "from": "1", "to": "2", "label": "relationship description" }]
}

Constraint: Return valid JSON ONLY. No markdown, no preamble.`, text)
}

func webContext(results []websearcher.Result) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Source: %s\nContent: %s", r.URL, r.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func synthesisPrompt(query, context, web string) string {
	if len(strings.TrimSpace(context)) == 0 {
		context = "None"
	}
	return fmt.Sprintf(`Act as a Senior Research Fellow helping a student prepare a research paper.

USER QUERY: %s
LOCAL DOCUMENT CONTEXT: %s
LATEST WEB RESEARCH:
%s

Synthesize a comprehensive, scholarly response.
- Compare the local context with the latest web findings.
- Cite the web sources.
- Identify gaps in current research that can be explored.

Format with markdown. Use 'Source' links properly.`, query, context, web)
}

func journalPrompt(abstract string) string {
	return fmt.Sprintf(`Act as a Publication Strategist. Suggest 3-5 high-impact journals for the research abstract below.

ABSTRACT:
%s

For each journal provide the name, an estimated impact factor (0.0 - 50.0), the average review time (e.g. 2-4 months)
and the acceptance probability (High/Medium/Low) based on topic fit.

Return ONLY a JSON array of objects. No markdown.
Example: [{ "name": "Nature", "impact": 42.1, "review_time": "3 months", "prob": "Low" }]`, abstract)
}

func trendsPrompt(topic, web string) string {
	return fmt.Sprintf(`Act as a Research Analyst. Based on this topic and web data, estimate the research 'market' interest.
TOPIC: %s
WEB DATA: %s

Return ONLY a JSON object:
{
    "trend_score": <int 0-100>,
    "market_status": "Emerging / Saturated / High Growth",
    "yearly_volume": [{ "year": 2021, "count": 100 }, { "year": 2022, "count": 150 }, ...],
    "analysis": "2-3 sentence trend summary"
}`, topic, web)
}

func keywordPrompt(text string) string {
	return fmt.Sprintf(`Analyze this research paper and extract 2-3 powerful scientific keywords that represent its core invention.

PAPER: %s

Return ONLY the keywords. Example: 'Quantum Computing'`, text)
}

func ieeePrompt(text string) string {
	return fmt.Sprintf(`Act as an IEEE Peer Reviewer. Check the research paper text below for structural compliance with IEEE standards.

TEXT:
%s

Check for:
1. Presence of 'Abstract'
2. Presence of 'Index Terms' or 'Keywords'
3. Roman numeral section numbering (I. Introduction, II. Literature Survey, etc.)
4. References section consistency
5. Figure/Table citation style

Return ONLY a JSON object:
{
    "is_eligible": <boolean>,
    "score": <int 0-100>,
    "feedback": "A concise summary of status",
    "required_changes": ["Change 1", "Change 2", ...],
    "strengths": ["Point 1", ...]
}`, text)
}

func draftPrompt(topic, sectionType, context string) string {
	return fmt.Sprintf(`Act as a Principal Research Scientist. Draft a highly professional '%s' for a research paper.

TOPIC: %s
CONTEXT/DATA: %s

Style guide:
- Use formal academic English.
- Keep a logical flow of arguments.
- For a Literature Survey, mention general research trends if specific ones are not provided.
- For an Abstract, follow the Problem - Method - Results - Impact structure.

Return ONLY the drafted text.`, sectionType, topic, context)
}

func synthesizePrompt(papers []Document) string {
	var sb strings.Builder
	for i, p := range papers {
		fmt.Fprintf(&sb, "\n--- PAPER %d: %s ---\n%s\n", i+1, p.Filename, truncate(p.Content, paperBudget))
	}

	return fmt.Sprintf(`Act as a Senior Research Analyst. Synthesize the following research papers into a comparative literature grid.

DATA:
%s

Compare them across:
1. Primary Objective
2. Methodology Used
3. Key Findings
4. Unique Contribution/Novelty

Return ONLY a JSON list of objects:
[
    {
        "paper": "Filename",
        "objective": "...",
        "methodology": "...",
        "findings": "...",
        "novelty": "..."
    },
    ...
]`, sb.String())
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Package rag rewrites the latest user question with context passages
// retrieved from the vector index.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shadowtv/ragrelay/internal/chat"
	"github.com/shadowtv/ragrelay/internal/openai"
	"github.com/shadowtv/ragrelay/internal/pinecone"
)

// topK is the number of passages retrieved per question.
const topK = 3

// answerTemplate instructs the model to answer from the retrieved passages
// only, in the first person, in Markdown, with the reference list appended
// verbatim after the answer.
const answerTemplate = `You are answering on behalf of the channel host, in the first person.
Answer the question using only the content of the passages below. Do not make up an answer and do not add anything beyond the answer. If the passages do not determine the answer, reply "Sorry, I could not find an answer in the available material. You may want to rephrase your question." Fix any typos found in the passages before using them.
Return the answer in Markdown format. The references must be appended verbatim after the answer.
Question:
"""
%s
"""
Passages:
"""
%s
"""
References:
"""
%s
"""
First-person answer in Markdown:`

// Augmenter retrieves context for a question and rewrites the conversation.
type Augmenter struct {
	embedder  *openai.Client
	index     *pinecone.Client
	namespace string
}

// New constructs an Augmenter over the embedding client and index client,
// scoped to one index namespace.
func New(embedder *openai.Client, index *pinecone.Client, namespace string) *Augmenter {
	return &Augmenter{embedder: embedder, index: index, namespace: namespace}
}

// Augment embeds the latest user question, queries the index, and — when
// matches come back — replaces that message's content with the rendered
// instruction template. It returns the (possibly rewritten) messages and the
// original question text.
//
// An embedding failure aborts the pipeline. An index query failure only
// degrades: the conversation passes through untouched. Absence of a user
// message or of any matches is a normal outcome, not an error.
func (a *Augmenter) Augment(ctx context.Context, apiKey string, msgs []chat.Message) ([]chat.Message, string, error) {
	question := ""
	last := chat.LastUserMessage(msgs)
	if last >= 0 {
		question = msgs[last].Content
	}

	vector, err := a.embedder.Embed(ctx, apiKey, question)
	if err != nil {
		return nil, question, fmt.Errorf("embed question: %w", err)
	}

	matches, err := a.index.Query(ctx, vector, topK, a.namespace)
	if err != nil {
		slog.Warn("index query failed, proceeding without context", "error", err)
		return msgs, question, nil
	}
	if len(matches) == 0 || last < 0 {
		return msgs, question, nil
	}

	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	out[last].Content = renderTemplate(question, matches)
	return out, question, nil
}

// renderTemplate builds the instruction prompt from the question and the
// retrieved matches. Matches with blank text contribute nothing to the
// passage block but still yield a reference line; the reference list is
// deduplicated preserving first-seen order.
func renderTemplate(question string, matches []pinecone.Match) string {
	var texts []string
	for _, m := range matches {
		if strings.TrimSpace(m.Metadata.Text) != "" {
			texts = append(texts, m.Metadata.Text)
		}
	}

	seen := make(map[string]struct{}, len(matches))
	var refs []string
	for _, m := range matches {
		ref := referenceLine(m.Metadata)
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	return fmt.Sprintf(answerTemplate, question, strings.Join(texts, " "), strings.Join(refs, "\n"))
}

func referenceLine(meta pinecone.Metadata) string {
	return fmt.Sprintf("Related video: %s\nhttps://www.youtube.com/watch?v=%s", meta.Title, meta.YouTubeID)
}

package extract

import (
	"fmt"
	"strings"
)

const TopicPrompt = `Analyze the following exam question paper content and identify the %d most important topics.

Return a JSON array of topic objects. Each object must have exactly these fields:

- "topic": topic name, short and clear (string)
- "importance": how important the topic is for the exam, integer from 0 to 100 (number)
- "details": short summary of what the questions cover, 1-2 sentences (string)

Rules:
- Only name topics that actually appear in the content
- Merge near-duplicate topics into one entry
- Return an empty array [] if the content has no examinable topics

Respond with ONLY the JSON array, no other text.`

// BuildChunkPrompt creates the full prompt for one chunk of paper text.
func BuildChunkPrompt(numTopics int, chunkIndex, totalChunks int, chunkText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, TopicPrompt, numTopics)
	sb.WriteString("\n\n---\n")
	if totalChunks > 1 {
		fmt.Fprintf(&sb, "Part %d of %d\n", chunkIndex+1, totalChunks)
	}
	sb.WriteString("Content:\n")
	sb.WriteString(chunkText)
	return sb.String()
}

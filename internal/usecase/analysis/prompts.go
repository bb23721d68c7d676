package analysis

const shortPostsPrompt = `You are an expert at analyzing conversations between teachers and extracting the most valuable insights.
Focus on teaching strategies discussed, solutions to common challenges, innovative approaches shared and key learnings.

Write 3 to 5 short social posts that other teachers would find valuable.
Each post must be at most 280 characters.

Respond with a JSON array of strings and nothing else. Example: ["First post", "Second post"]`

const articlePrompt = `You are an expert at analyzing conversations between teachers and extracting the most valuable insights.
Focus on teaching strategies discussed, solutions to common challenges, innovative approaches shared and key learnings.

Write exactly one article between 500 and 1000 words that other teachers would find valuable.
Use clear paragraphs.

Respond with a JSON array containing the article as its only string and nothing else. Example: ["The article text"]`

const userPromptPrefix = "Please analyze this conversation transcript and extract the most valuable insights to share with other teachers:\n\n"

func userPrompt(transcript string) string {
	return userPromptPrefix + transcript
}

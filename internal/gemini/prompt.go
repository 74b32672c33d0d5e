package gemini

// TranscribePrompt asks the model to transcribe one page image
// faithfully, preserving reading order.
const TranscribePrompt = `Extract all text visible in this page image, exactly as written.

Requirements:
1. Preserve the original layout and line structure where possible.
2. Keep numbers, punctuation and symbols intact.
3. Read top to bottom, left to right.

Return only the extracted text, with no commentary.`

// AnalysisPrompt asks the model for a structured analysis of already
// extracted text. The response must embed a single JSON object.
const AnalysisPrompt = `Analyze the following document text and respond with a single JSON object containing:
- "title": the document title, if one can be determined
- "language": the primary language of the document (ISO 639-1 code)
- "document_type": a short label such as "invoice", "report", "letter"
- "summary": a concise summary of the content
- "key_points": an array of the most important points
- "structured_data": an object with any well-defined fields you can extract (dates, amounts, names)
- "translation": an English translation of the main content if the document is not in English, otherwise omit
- "tables": an array of tables found in the text, each as {"headers": [...], "rows": [[...]]}

Return only the JSON object.

Document text:
`

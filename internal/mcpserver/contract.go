package mcpserver

// ArticleFormatContract describes the JSON article record that LLM consumers
// should produce when creating articles.
const ArticleFormatContract = `# Article Record Format

Every article is one UTF-8 JSON file stored at ` + "`" + `{category}/{slug}.json` + "`" + `
under the content root. Category and slug come from the file location; any
Category or Slug keys inside the record are ignored.

## Structure

` + "```" + `json
{
  "Title": "Kredyt hipoteczny krok po kroku",
  "H1": "Jak działa kredyt hipoteczny",
  "MetaDescription": "Wszystko o kredycie hipotecznym w jednym miejscu.",
  "LastModified": "2024-03-01T10:00:00Z",
  "WordCount": 1350,
  "FeaturedImage": "https://example.com/kredyt.jpg",
  "Article": "<p>Wstęp</p><h2>Raty</h2><p>...</p>",
  "FAQ": [
    {"Question": "Czy warto?", "Answer": "To zależy od sytuacji."}
  ]
}
` + "```" + `

## Rules

1. **Title or H1 is required.** When one is missing the other is used for both.
2. **Body** is either ` + "`" + `Article` + "`" + ` (HTML; every ` + "`" + `<h2>` + "`" + ` starts a new section
   and a table-of-contents entry) or ` + "`" + `Content` + "`" + ` (array of strings, one block each).
3. **Content blocks** are classified in order: ` + "`" + `## ` + "`" + ` prefix is a section heading,
   ` + "`" + `### ` + "`" + ` a subheading, lines starting with ` + "`" + `- ` + "`" + ` a bulleted list,
   lines starting with ` + "`" + `1. ` + "`" + ` a numbered list, anything else a paragraph.
4. **FAQ** items use ` + "`" + `Question` + "`" + `/` + "`" + `Answer` + "`" + ` (` + "`" + `q` + "`" + `/` + "`" + `a` + "`" + ` is accepted on read).
5. **ComparisonType** ` + "`" + `"vs"` + "`" + ` marks a comparison article; its FAQ is not shown.
6. **LastModified** is ISO-8601. Records without it sort as the oldest.
7. **Category and slug** are lowercase, hyphenated, Latin characters
   (e.g. ` + "`" + `finanse/kredyt-hipoteczny` + "`" + `). Text values are Polish.
`

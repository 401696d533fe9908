package ai

import "strings"

// basePrompt is the application-message prompt. The project
// description is substituted for the placeholder. The contract with
// the generator: plain-text Ukrainian message ending with the fixed
// closing line, or the literal word "false" when the project does not
// match the agency's profile.
const basePrompt = `Hi!
You will write application messages for freelance projects on my behalf.
I will provide you only the **project description**.

### About our agency:
- Name: Netly
- Focus: creating websites and web applications
- Tech stack: Next.js, React, TailwindCSS, Python, FastAPI, Flask, PostgreSQL, Docker, AWS
- We do full frontend, backend, API integrations, and admin panels
- use "\n" for new lines
- Website: https://netly.pp.ua
- Hourly rate: $10/hour (if requested)

### Task:
1. First decide whether the project is about websites, web applications,
   APIs, or admin panels. If it is NOT, return only the word "false"
   with nothing else.
2. Otherwise generate a **professional and concise application message**
   for the client.
   - Use information about our agency and tech stack.
   - The **message must be in Ukrainian**.
   - Be structured, clear, and without fluff.
   - Do NOT use markup, bold, bullet points formatting, or placeholders like [Ваше ім'я].
   - Do NOT include formal sign-offs or extra details about Docker/AWS unless specifically relevant.
   - At the end, add only:
     "Наш сайт: https://netly.pp.ua\nБуду радий обговорити деталі."
3. Return only the plain text message.

Project description:
%DESCRIPTION%`

// BuildPrompt embeds a project description into the base prompt.
func BuildPrompt(description string) string {
	return strings.Replace(basePrompt, "%DESCRIPTION%", description, 1)
}

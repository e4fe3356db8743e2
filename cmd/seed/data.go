package main

// rubricItem is one weighted rubric criterion to seed into the vector
// store. Weights within a group are expected to sum to 1.0; the pipeline
// does not enforce this, so keep the data honest.
type rubricItem struct {
	Category    string
	Description string
	Guide       string
	Weight      float64
	Group       string
}

func rubricItems() []rubricItem {
	return []rubricItem{
		{
			Category:    "Technical Skills Match",
			Description: "Alignment with backend, databases, APIs, cloud, and any AI/LLM exposure.",
			Guide:       "1 = no overlap with the required stack, 3 = solid backend fundamentals with partial stack overlap, 5 = strong coverage of backend, data and AI/LLM tooling.",
			Weight:      0.4,
			Group:       "cv",
		},
		{
			Category:    "Experience Level",
			Description: "Years and complexity of projects delivered; track record and impact.",
			Guide:       "1 = little or no production experience, 3 = several delivered projects of moderate complexity, 5 = sustained ownership of complex production systems.",
			Weight:      0.25,
			Group:       "cv",
		},
		{
			Category:    "Relevant Achievements",
			Description: "Measurable outcomes like scaling, performance, adoption, reliability.",
			Guide:       "1 = no measurable outcomes stated, 3 = some quantified results, 5 = repeated high-impact results with concrete numbers.",
			Weight:      0.2,
			Group:       "cv",
		},
		{
			Category:    "Cultural / Collaboration Fit",
			Description: "Communication, learning mindset, teamwork/leadership.",
			Guide:       "1 = no evidence of collaboration, 3 = works well in teams, 5 = clear communication plus mentoring or leadership signals.",
			Weight:      0.15,
			Group:       "cv",
		},
		{
			Category:    "Correctness (Prompt & Chaining)",
			Description: "Implements prompt design, LLM chaining, and RAG context injection correctly.",
			Guide:       "1 = core flow missing or broken, 3 = works with gaps in chaining or retrieval, 5 = prompt design, chaining and context injection all correct.",
			Weight:      0.3,
			Group:       "project",
		},
		{
			Category:    "Code Quality & Structure",
			Description: "Clean, modular, reusable, tested code and sensible structure.",
			Guide:       "1 = tangled untested code, 3 = readable with partial tests, 5 = clean modular design with meaningful test coverage.",
			Weight:      0.25,
			Group:       "project",
		},
		{
			Category:    "Resilience & Error Handling",
			Description: "Handles long jobs, retries/backoff, timeouts, and LLM randomness.",
			Guide:       "1 = failures crash the run, 3 = basic error handling, 5 = retries, backoff, timeouts and nondeterminism all handled.",
			Weight:      0.2,
			Group:       "project",
		},
		{
			Category:    "Documentation & Explanation",
			Description: "Clear README, setup, and trade-off explanations; testing notes.",
			Guide:       "1 = no documentation, 3 = setup instructions only, 5 = clear setup, trade-offs and testing notes.",
			Weight:      0.15,
			Group:       "project",
		},
		{
			Category:    "Creativity / Bonus",
			Description: "Useful extras beyond requirements (auth, deployment, dashboards, etc.).",
			Guide:       "1 = nothing beyond the brief, 3 = one useful extra, 5 = several well-executed extras.",
			Weight:      0.1,
			Group:       "project",
		},
	}
}

func jobDescItems() []string {
	return []string{
		"backend technologies",
		"backend languages and frameworks (Node.js, Django, Rails)",
		"Database management (MySQL, PostgreSQL, MongoDB)",
		"RESTful APIs",
		"Security compliance",
		"Cloud technologies (AWS, Google Cloud, Azure)",
		"Server-side languages (Java, Python, Ruby, or JavaScript)",
		"Understanding of frontend technologies",
		"User authentication and authorization between multiple systems, servers, and environments",
		"Scalable application design principles",
		"Creating database schemas that represent and support business processes",
		"Implementing automated testing platforms and unit tests",
		"Familiarity with LLM APIs, embeddings, vector databases and prompt design best practices",
		"Agile methodology",
		"robust, clean, efficient code",
		"AI-powered systems",
		"orchestrate large language models (LLMs) and integrate into systems",
	}
}

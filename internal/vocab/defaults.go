package vocab

// Default returns a fresh copy of the built-in vocabulary
func Default() *Vocabulary {
	return &Vocabulary{
		Skills: []string{
			"Python", "Java", "JavaScript", "TypeScript", "React", "Angular", "Vue.js", "Node.js",
			"Django", "Flask", "Spring", "SQL", "NoSQL", "MongoDB", "PostgreSQL", "MySQL", "Docker",
			"Kubernetes", "AWS", "Azure", "GCP", "Git", "Agile", "Scrum", "DevOps", "REST", "GraphQL",
		},

		ExperienceHeaders: []string{
			"expérience", "expériences professionnelles", "experience",
			"professional experience", "work experience",
		},
		ExperienceFooters: []string{"formation", "éducation", "education", "compétences", "skills"},
		EducationHeaders:  []string{"formation", "éducation", "education"},
		EducationFooters:  []string{"compétences", "skills", "expérience", "experience"},

		Industries: []string{
			"tech", "finance", "santé", "health", "éducation", "education",
			"média", "media", "retail", "consulting",
		},
		ManagementTitles: []string{"lead", "manager", "responsable", "head of"},
		SeniorTitle:      "senior",
		AdvancedDegrees: []string{
			"master", "mastère", "mba", "ingénieur", "doctorat", "doctorate", "phd", "bac+5", "msc",
		},
		PrestigiousInstitutions: []string{
			"polytechnique", "centrale", "mines", "hec", "essec", "edhec", "dauphine", "sorbonne", "sciences po",
		},
		TechnicalFields: []string{
			"informatique", "développement", "numérique", "données", "computer science", "engineering", "tech",
		},
		JobRequirements: []string{
			"front-end development", "back-end development", "full-stack development",
			"mobile development", "project management", "teamwork",
			"solution design", "software architecture", "agile",
			"data analysis", "communication", "problem solving",
			"développement front-end", "développement back-end", "développement full-stack",
			"développement mobile", "gestion de projet", "travail en équipe",
			"conception de solutions", "architecture logicielle",
			"analyse de données", "résolution de problèmes",
		},

		SkillAdjacency: map[string][]string{
			"react":      {"angular", "vue.js", "svelte"},
			"angular":    {"react", "vue.js"},
			"vue.js":     {"react", "angular"},
			"python":     {"java", "javascript", "c++", "php"},
			"java":       {"python", "c++", "c#"},
			"javascript": {"typescript", "python", "php"},
			"typescript": {"javascript", "java", "c#"},
			"node.js":    {"django", "flask", "spring", "express"},
			"django":     {"flask", "spring", "node.js", "laravel"},
			"sql":        {"mongodb", "nosql", "postgresql", "mysql"},
			"mongodb":    {"sql", "postgresql", "cassandra"},
			"docker":     {"kubernetes", "vagrant", "aws"},
			"aws":        {"azure", "gcp", "docker", "kubernetes"},
			"azure":      {"aws", "gcp", "openstack"},
			"gcp":        {"aws", "azure"},
			"git":        {"svn", "mercurial"},
			"agile":      {"waterfall", "scrum", "kanban"},
			"scrum":      {"kanban", "agile", "waterfall"},
			"devops":     {"ci/cd", "mlops", "sre"},
		},

		GenericStrengths: []string{
			"Well-structured profile with clearly stated technical skills.",
			"Relevant experience in similar roles.",
			"Consistent career progression.",
			"Solid skill set.",
			"Able to adapt to different professional contexts.",
		},
		GenericWeaknesses: []string{
			"The CV could describe concrete achievements in more detail.",
			"Experience gained in companies of a different size.",
			"Little information about participation in team projects.",
			"Some specific technical skills could be deepened.",
		},
		GenericExperienceInsights: []string{
			"Progressive specialization visible across the career path.",
			"Experience gained in varied professional environments.",
			"Career path consistent with the target position.",
		},
		GenericEducationInsights: []string{
			"Academic background in line with the target position.",
			"Combination of theoretical and practical training.",
			"Initial education complemented by relevant professional experience.",
		},

		Templates: Templates{
			Technical: []Template{
				{"Can you explain how you would use {skill} to solve a complex problem?", "Assess technical mastery and practical application"},
				{"Describe a project where you used {skill}. What challenges did you face?", "Verify real experience with the technology"},
				{"How do you keep up to date with changes in {skill}?", "Assess commitment to continuous learning"},
				{"In your view, what is the difference between {skill} and {alternative_skill}?", "Test comparative knowledge of technologies"},
				{"Can you explain an advanced concept of {skill}?", "Assess depth of technical knowledge"},
			},
			Experience: []Template{
				{"In your role at {company}, how did you contribute to {activity}?", "Verify concrete achievements"},
				{"Describe a major challenge you faced as {title} and how you overcame it.", "Assess problem solving"},
				{"How did you measure success in your role as {title}?", "Verify results orientation"},
				{"Tell me about a project you are particularly proud of from your time at {company}.", "Identify significant achievements"},
				{"How does your experience as {title} prepare you for this position?", "Assess relevance of experience"},
			},
			SoftSkills: []Template{
				{"Describe a situation where you had to work under pressure to meet a deadline.", "Assess stress and deadline management"},
				{"How do you handle conflicts within a team?", "Assess interpersonal skills"},
				{"Tell me about a time you had to convince colleagues to adopt your approach.", "Assess persuasion skills"},
				{"How do you adapt to rapidly changing priorities?", "Assess adaptability"},
				{"Describe your approach to learning a new technology quickly.", "Assess learning ability"},
			},
			JobSpecific: []Template{
				{"How does your experience align with our need for {job_requirement}?", "Assess fit with the specific position"},
				{"What would your priorities be in the first 90 days in this position?", "Assess vision and planning"},
				{"How would you measure your success in this role?", "Verify understanding of the role's objectives"},
				{"Why do you think you are the right person for this position?", "Assess self-awareness and confidence"},
				{"Which aspects of this position interest you the most?", "Assess motivation and enthusiasm"},
			},
		},

		Phrases: Phrases{
			AlternativeSkill: "similar technologies",
			OtherSkills:      "other technologies",
			Company:          "your previous company",
			Title:            "your previous role",
			Activity:         "contributing to the company's projects",
		},
	}
}

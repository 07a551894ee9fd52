package intent

// Pattern tables. Table order is load-bearing: category priority and
// first-match-wins inside each table keep classification deterministic.

import "regexp"

type actionPatterns struct {
	action   string
	patterns []*regexp.Regexp
}

var filePatterns = []actionPatterns{
	{
		action: "create",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:write|create|make|generate)\s+(?:a\s+)?(?:file|script|program)`),
			regexp.MustCompile(`write\s+(?:a\s+)?(?:script|program|file)`),
			regexp.MustCompile(`create\s+(?:a\s+)?(?:script|program|file)`),
			regexp.MustCompile(`save\s+(?:to\s+)?file`),
			regexp.MustCompile(`make\s+(?:a\s+)?script`),
			regexp.MustCompile(`generate\s+(?:a\s+)?\w+\s+file`),
			regexp.MustCompile(`create\s+(?:a\s+)?\w+\s+(?:script|file|program)`),
		},
	},
	{
		action: "read",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:read|show|open|display|view)\s+(?:the\s+)?(?:file|@?\w+\.\w+)`),
			regexp.MustCompile(`content\s+of\s+\w+\.\w+`),
			regexp.MustCompile(`show\s+me\s+(?:@?\w+\.\w+|(?:the\s+)?(?:file|code))`),
			regexp.MustCompile(`what'?s\s+in\s+\w+\.\w+`),
			regexp.MustCompile(`@\w+\.\w+`),
		},
	},
	{
		action: "edit",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:edit|modify|change|update)\s+(?:the\s+)?(?:file|@?\w+\.\w+)`),
			regexp.MustCompile(`(?:edit|modify|change|update)\s+\w+\.\w+`),
			regexp.MustCompile(`fix\s+(?:the\s+)?file`),
		},
	},
}

var gitPatterns = []actionPatterns{
	{
		action: "status",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`git\s+status`),
			regexp.MustCompile(`repo(?:sitory)?\s+status`),
			regexp.MustCompile(`what\s+(?:files\s+)?(?:have\s+)?changed`),
			regexp.MustCompile(`show\s+(?:me\s+)?(?:git\s+)?status`),
			regexp.MustCompile(`current\s+(?:git\s+)?status`),
		},
	},
	{
		action: "diff",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`git\s+diff`),
			regexp.MustCompile(`show\s+(?:me\s+)?(?:the\s+)?diff`),
			regexp.MustCompile(`what\s+(?:are\s+)?(?:the\s+)?changes`),
			regexp.MustCompile(`diff\s+(?:of\s+)?changes`),
		},
	},
	{
		action: "log",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`git\s+log`),
			regexp.MustCompile(`(?:commit\s+)?history`),
			regexp.MustCompile(`recent\s+commits`),
			regexp.MustCompile(`show\s+(?:me\s+)?(?:the\s+)?log`),
		},
	},
}

var searchPatterns = []actionPatterns{
	{
		action: "grep",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:find|search|grep|look\s+for|locate)\s+`),
			regexp.MustCompile(`search\s+for\s+`),
			regexp.MustCompile(`find\s+(?:all\s+)?(?:instances\s+of|occurrences\s+of)`),
			regexp.MustCompile(`where\s+is\s+`),
		},
	},
}

var bashPatterns = []actionPatterns{
	{
		action: "run",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:run|execute)\s+(?:the\s+)?command`),
			regexp.MustCompile("(?:run|execute)\\s+[\"`']?(?:npm|pip|python|node|cargo|go)"),
			regexp.MustCompile(`get\s+(?:my\s+)?(?:current\s+)?(?:pwd|directory)`),
			regexp.MustCompile(`what\s*'?s\s+(?:my\s+)?(?:current\s+)?(?:pwd|directory)`),
			regexp.MustCompile(`run\s+\w+`),
			regexp.MustCompile(`execute\s+\w+`),
		},
	},
}

package analyzer

import (
	"regexp"
	"strings"
)

// listing is the depth-1 view the filename rules run against. Names are lower-cased.
type listing struct {
	files []string
	dirs  []string
}

func (l listing) hasFile(names ...string) bool {
	for _, f := range l.files {
		for _, n := range names {
			if f == n {
				return true
			}
		}
	}
	return false
}

func (l listing) fileContains(sub string) bool {
	for _, f := range l.files {
		if strings.Contains(f, sub) {
			return true
		}
	}
	return false
}

func (l listing) hasDir(names ...string) bool {
	for _, d := range l.dirs {
		for _, n := range names {
			if d == n {
				return true
			}
		}
	}
	return false
}

func (l listing) countDirs(names ...string) int {
	n := 0
	for _, name := range names {
		if l.hasDir(name) {
			n++
		}
	}
	return n
}

type rule struct {
	label string
	match func(l listing) bool
}

// Rules are evaluated in order and each label is emitted at most once, so the
// output depends on the table order and never on the listing order.
var frameworkRules = []rule{
	{"Node.js", func(l listing) bool { return l.hasFile("package.json") }},
	{"Python", func(l listing) bool { return l.hasFile("requirements.txt", "setup.py") }},
	{"PHP", func(l listing) bool { return l.hasFile("composer.json") }},
	{"Go", func(l listing) bool { return l.hasFile("go.mod") }},
	{"Rust", func(l listing) bool { return l.hasFile("cargo.toml") }},
}

var databaseRules = []rule{
	{"SQL Database", func(l listing) bool { return l.fileContains("sql") }},
	{"MongoDB", func(l listing) bool { return l.fileContains("mongodb") }},
}

var toolRules = []rule{
	{"Make", func(l listing) bool { return l.hasFile("makefile") }},
	{"CMake", func(l listing) bool { return l.hasFile("cmakelists.txt") }},
	{"npm", func(l listing) bool { return l.hasFile("package-lock.json") }},
	{"Yarn", func(l listing) bool { return l.hasFile("yarn.lock") }},
	{"Poetry", func(l listing) bool { return l.hasFile("poetry.lock") }},
}

var deploymentRules = []rule{
	{"Docker", func(l listing) bool { return l.hasFile("dockerfile") }},
	{"Docker Compose", func(l listing) bool { return l.hasFile("docker-compose.yml", "docker-compose.yaml") }},
	{"GitHub Actions", func(l listing) bool { return l.hasDir(".github") }},
}

var architectureRules = []rule{
	{"MVC", func(l listing) bool { return l.countDirs("controllers", "models", "views") >= 2 }},
	{"Microservices", func(l listing) bool {
		return l.hasFile("docker-compose.yml", "docker-compose.yaml") && l.hasDir("services", "microservices")
	}},
	{"Monorepo", func(l listing) bool { return l.hasDir("packages", "apps") }},
	{"Layered", func(l listing) bool { return l.hasDir("internal") && l.hasDir("cmd") }},
}

func applyRules(rules []rule, l listing) []string {
	out := []string{}
	for _, r := range rules {
		if r.match(l) {
			out = appendUnique(out, r.label)
		}
	}
	return out
}

var importantPatterns = []string{
	"readme", "license", "contributing", "changelog",
	"package.json", "requirements.txt", "setup.py",
	"dockerfile", "docker-compose", "makefile", "cmake", ".gitignore",
}

var languageExtensions = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".java":  "Java",
	".cpp":   "C++",
	".c":     "C",
	".cs":    "C#",
	".php":   "PHP",
	".rb":    "Ruby",
	".go":    "Go",
	".rs":    "Rust",
	".swift": "Swift",
	".kt":    "Kotlin",
	".scala": "Scala",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "SCSS",
}

type contentRule struct {
	label    string
	patterns []*regexp.Regexp
}

func (r contentRule) match(content string) bool {
	for _, p := range r.patterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

func ci(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

var frameworkContentRules = []contentRule{
	{"Flask", ci(`from flask import`, `Flask\(`)},
	{"Django", ci(`from django`, `django\.`)},
	{"FastAPI", ci(`from fastapi import`, `FastAPI\(`)},
	{"Express.js", ci(`express\(\)`, `require\(['"]express['"]\)`)},
	{"React", ci(`import React`, `from ['"]react['"]`)},
	{"Vue.js", ci(`new Vue\(`, `from ['"]vue['"]`)},
	{"Angular", ci(`@Component`, `from ['"]@angular`)},
	{"Spring Boot", ci(`@SpringBootApplication`, `spring\.boot`)},
	{"Rails", ci(`Rails\.application`, `class.*< ApplicationController`)},
}

var databaseContentRules = []contentRule{
	{"SQLAlchemy", ci(`from sqlalchemy`, `db\.Model`)},
	{"MongoDB", ci(`from pymongo`, `MongoClient`)},
	{"PostgreSQL", ci(`psycopg2`, `postgresql://`)},
	{"MySQL", ci(`mysql`, `MySQLdb`)},
	{"SQLite", ci(`sqlite3`, `\.db`)},
}

// Endpoint patterns are case-sensitive.
var endpointPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@app\.route\(['"][^'"]*['"]`),
	regexp.MustCompile(`app\.(get|post|put|delete)\(['"][^'"]*['"]`),
	regexp.MustCompile(`@RequestMapping`),
	regexp.MustCompile(`@GetMapping`),
	regexp.MustCompile(`@PostMapping`),
	regexp.MustCompile(`def (get|post|put|delete)_`),
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}

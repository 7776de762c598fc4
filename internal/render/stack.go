package render

import (
	"path"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

var webFrameworks = []string{"Flask", "Django", "Express.js", "FastAPI"}

// stack is the set of switches the templates are gated on.
type stack struct {
	python       bool
	node         bool
	golang       bool
	react        bool
	docker       bool
	compose      bool
	hasDeploy    bool
	webFramework bool
	entryPoint   string
	image        string
	endpoints    []string
}

func newStack(a *model.RepositoryAnalysis) stack {
	frameworks := make(map[string]bool)
	for _, f := range a.Technologies.Frameworks {
		frameworks[f] = true
	}
	for _, f := range a.CodeAnalysis.Frameworks {
		frameworks[f] = true
	}
	deploy := make(map[string]bool)
	for _, d := range a.Technologies.Deployment {
		deploy[d] = true
	}
	s := stack{
		python:     frameworks["Python"],
		node:       frameworks["Node.js"],
		golang:     frameworks["Go"],
		react:      frameworks["React"],
		docker:     deploy["Docker"],
		compose:    deploy["Docker Compose"],
		hasDeploy:  len(a.Technologies.Deployment) > 0,
		entryPoint: pythonEntryPoint(a.CodeAnalysis.EntryPoints),
		image:      imageName(a),
		endpoints:  a.CodeAnalysis.APIEndpoints,
	}
	for _, f := range webFrameworks {
		if frameworks[f] {
			s.webFramework = true
			break
		}
	}
	return s
}

func pythonEntryPoint(entryPoints []string) string {
	for _, e := range entryPoints {
		if path.Ext(e) == ".py" {
			return e
		}
	}
	return "main.py"
}

func (s stack) runCommand() string {
	switch {
	case s.python && s.node:
		return "npm start  # or python " + s.entryPoint
	case s.python:
		return "python " + s.entryPoint
	case s.node:
		return "npm start"
	case s.golang:
		return "go run ."
	default:
		return "docker run -p 8000:8000 " + s.image
	}
}

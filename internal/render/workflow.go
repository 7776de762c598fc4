package render

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type workflow struct {
	Name string                 `yaml:"name"`
	On   workflowTriggers       `yaml:"on"`
	Jobs map[string]workflowJob `yaml:"jobs"`
}

type workflowTriggers struct {
	Push        branchFilter `yaml:"push"`
	PullRequest branchFilter `yaml:"pull_request"`
}

type branchFilter struct {
	Branches []string `yaml:"branches,flow"`
}

type workflowJob struct {
	RunsOn   string         `yaml:"runs-on"`
	Needs    []string       `yaml:"needs,omitempty,flow"`
	Strategy *jobStrategy   `yaml:"strategy,omitempty"`
	Steps    []workflowStep `yaml:"steps"`
}

type jobStrategy struct {
	Matrix map[string][]interface{} `yaml:"matrix"`
}

type workflowStep struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

const runner = "ubuntu-latest"

var checkoutStep = workflowStep{Uses: "actions/checkout@v3"}

func pythonJob() workflowJob {
	return workflowJob{
		RunsOn:   runner,
		Strategy: &jobStrategy{Matrix: map[string][]interface{}{"python-version": {"3.8", "3.9", "3.10"}}},
		Steps: []workflowStep{
			checkoutStep,
			{
				Name: "Set up Python ${{ matrix.python-version }}",
				Uses: "actions/setup-python@v3",
				With: map[string]string{"python-version": "${{ matrix.python-version }}"},
			},
			{Name: "Install dependencies", Run: "python -m pip install --upgrade pip\npip install -r requirements.txt\n"},
			{Name: "Run tests", Run: "python -m pytest tests/\n"},
			{Name: "Run linter", Run: "flake8 . --count --select=E9,F63,F7,F82 --show-source --statistics\n"},
		},
	}
}

func nodeJob() workflowJob {
	return workflowJob{
		RunsOn:   runner,
		Strategy: &jobStrategy{Matrix: map[string][]interface{}{"node-version": {16, 18, 20}}},
		Steps: []workflowStep{
			checkoutStep,
			{
				Name: "Use Node.js ${{ matrix.node-version }}",
				Uses: "actions/setup-node@v3",
				With: map[string]string{"node-version": "${{ matrix.node-version }}", "cache": "npm"},
			},
			{Run: "npm ci"},
			{Run: "npm run build --if-present"},
			{Run: "npm test"},
		},
	}
}

func goJob() workflowJob {
	return workflowJob{
		RunsOn: runner,
		Steps: []workflowStep{
			checkoutStep,
			{Name: "Set up Go", Uses: "actions/setup-go@v5", With: map[string]string{"go-version": "stable"}},
			{Name: "Run tests", Run: "go test ./..."},
		},
	}
}

// renderWorkflow builds the CI workflow. The docker job only waits on test
// jobs that exist for the detected stack.
func renderWorkflow(s stack) (string, error) {
	wf := workflow{
		Name: "CI/CD",
		On: workflowTriggers{
			Push:        branchFilter{Branches: []string{"main", "develop"}},
			PullRequest: branchFilter{Branches: []string{"main"}},
		},
		Jobs: map[string]workflowJob{},
	}
	var needs []string
	if s.python {
		wf.Jobs["test-python"] = pythonJob()
		needs = append(needs, "test-python")
	}
	if s.node {
		wf.Jobs["test-node"] = nodeJob()
		needs = append(needs, "test-node")
	}
	if s.golang {
		wf.Jobs["test-go"] = goJob()
		needs = append(needs, "test-go")
	}
	wf.Jobs["docker-build"] = workflowJob{
		RunsOn: runner,
		Needs:  needs,
		Steps: []workflowStep{
			checkoutStep,
			{Name: "Build Docker image", Run: "docker build -t " + s.image + " ."},
			{Name: "Test Docker image", Run: "docker run --rm " + s.image + ` echo "Docker build successful"`},
		},
	}
	out, err := yaml.Marshal(&wf)
	if err != nil {
		return "", fmt.Errorf("marshal workflow: %w", err)
	}
	return string(out), nil
}

package discover

import (
	"bufio"
	"strings"
)

// requirementNameTerminators end the package name in a requirement specifier.
var requirementNameTerminators = []string{"==", ">=", "<=", "~=", "!=", ">", "<", "[", ";", " ", "\t"}

type pythonRequirementsDetector struct{}

func (pythonRequirementsDetector) Ecosystem() Ecosystem {
	return EcosystemPython
}

func (pythonRequirementsDetector) ManifestFilename() string {
	return "requirements.txt"
}

func (pythonRequirementsDetector) Detect(content string) []Dependency {
	var dependencies []Dependency
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") || strings.HasPrefix(trimmedLine, "-") {
			continue
		}
		name := requirementName(trimmedLine)
		if name == "" {
			continue
		}
		dependencies = append(dependencies, Dependency{
			Name:      name,
			Ecosystem: EcosystemPython,
		})
	}
	return dependencies
}

// pythonProjectDetector reads the [project] dependencies array from
// pyproject.toml. The parse is line-oriented and tolerant: pyproject files
// vary too much across build backends for strict TOML mapping to pay off
// when only names are wanted.
type pythonProjectDetector struct{}

func (pythonProjectDetector) Ecosystem() Ecosystem {
	return EcosystemPython
}

func (pythonProjectDetector) ManifestFilename() string {
	return "pyproject.toml"
}

func (pythonProjectDetector) Detect(content string) []Dependency {
	var dependencies []Dependency
	insideDependenciesArray := false
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if !insideDependenciesArray {
			if strings.HasPrefix(trimmedLine, "dependencies") && strings.Contains(trimmedLine, "[") {
				insideDependenciesArray = !strings.Contains(trimmedLine, "]")
				for _, quoted := range quotedValues(trimmedLine) {
					if name := requirementName(quoted); name != "" {
						dependencies = append(dependencies, Dependency{Name: name, Ecosystem: EcosystemPython})
					}
				}
			}
			continue
		}
		if strings.HasPrefix(trimmedLine, "]") {
			insideDependenciesArray = false
			continue
		}
		for _, quoted := range quotedValues(trimmedLine) {
			if name := requirementName(quoted); name != "" {
				dependencies = append(dependencies, Dependency{Name: name, Ecosystem: EcosystemPython})
			}
		}
	}
	return dependencies
}

func requirementName(specifier string) string {
	name := specifier
	for _, terminator := range requirementNameTerminators {
		if terminatorIndex := strings.Index(name, terminator); terminatorIndex != -1 {
			name = name[:terminatorIndex]
		}
	}
	return strings.TrimSpace(name)
}

func quotedValues(line string) []string {
	var values []string
	remaining := line
	for {
		openIndex := strings.Index(remaining, `"`)
		if openIndex == -1 {
			return values
		}
		remaining = remaining[openIndex+1:]
		closeIndex := strings.Index(remaining, `"`)
		if closeIndex == -1 {
			return values
		}
		values = append(values, remaining[:closeIndex])
		remaining = remaining[closeIndex+1:]
	}
}

package discover

import (
	"bufio"
	"strings"
)

// rustDetector reads crate names from the [dependencies] sections of
// Cargo.toml. Same tolerant line-oriented approach as the pyproject
// detector: section headers plus "name = ..." lines.
type rustDetector struct{}

func (rustDetector) Ecosystem() Ecosystem {
	return EcosystemRust
}

func (rustDetector) ManifestFilename() string {
	return "Cargo.toml"
}

func (rustDetector) Detect(content string) []Dependency {
	var dependencies []Dependency
	insideDependenciesSection := false
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(trimmedLine, "[") {
			sectionName := strings.Trim(trimmedLine, "[]")
			insideDependenciesSection = sectionName == "dependencies" ||
				sectionName == "dev-dependencies" ||
				strings.HasSuffix(sectionName, ".dependencies")
			continue
		}
		if !insideDependenciesSection || trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		equalsIndex := strings.Index(trimmedLine, "=")
		if equalsIndex == -1 {
			continue
		}
		name := strings.TrimSpace(trimmedLine[:equalsIndex])
		if name == "" {
			continue
		}
		dependencies = append(dependencies, Dependency{
			Name:      name,
			Ecosystem: EcosystemRust,
		})
	}
	return dependencies
}

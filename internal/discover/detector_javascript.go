package discover

import "encoding/json"

type npmManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type javaScriptDetector struct{}

func (javaScriptDetector) Ecosystem() Ecosystem {
	return EcosystemJavaScript
}

func (javaScriptDetector) ManifestFilename() string {
	return "package.json"
}

func (javaScriptDetector) Detect(content string) []Dependency {
	var manifest npmManifest
	if parseError := json.Unmarshal([]byte(content), &manifest); parseError != nil {
		return nil
	}
	var dependencies []Dependency
	appendDependency := func(name string) {
		if name == "" {
			return
		}
		dependencies = append(dependencies, Dependency{
			Name:      name,
			Ecosystem: EcosystemJavaScript,
		})
	}
	for name := range manifest.Dependencies {
		appendDependency(name)
	}
	for name := range manifest.DevDependencies {
		appendDependency(name)
	}
	return dependencies
}

package discover

import "golang.org/x/mod/modfile"

type goDetector struct{}

func (goDetector) Ecosystem() Ecosystem {
	return EcosystemGo
}

func (goDetector) ManifestFilename() string {
	return "go.mod"
}

func (goDetector) Detect(content string) []Dependency {
	modFile, parseError := modfile.Parse("go.mod", []byte(content), nil)
	if parseError != nil || modFile == nil {
		return nil
	}
	modulePath := ""
	if modFile.Module != nil {
		modulePath = modFile.Module.Mod.Path
	}
	var dependencies []Dependency
	for _, requirement := range modFile.Require {
		if requirement == nil || requirement.Indirect {
			continue
		}
		if requirement.Mod.Path == "" || requirement.Mod.Path == modulePath {
			continue
		}
		dependencies = append(dependencies, Dependency{
			Name:      requirement.Mod.Path,
			Ecosystem: EcosystemGo,
		})
	}
	return dependencies
}

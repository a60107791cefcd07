package msbuild

// Property names understood by the resolution pipeline. These are the build
// tool's own names and must match its output verbatim.
const (
	PropTargetPath                        = "TargetPath"
	PropTargetFramework                   = "TargetFramework"
	PropTargetFrameworks                  = "TargetFrameworks"
	PropOutputPath                        = "OutputPath"
	PropBaseOutputPath                    = "BaseOutputPath"
	PropAssemblyName                      = "AssemblyName"
	PropTargetExt                         = "TargetExt"
	PropTargetFileName                    = "TargetFileName"
	PropAppendTargetFrameworkToOutputPath = "AppendTargetFrameworkToOutputPath"
)

// ResolutionProperties returns the fixed property set queried for every
// binary resolution, in a stable order.
func ResolutionProperties() []string {
	return []string{
		PropTargetPath,
		PropTargetFramework,
		PropTargetFrameworks,
		PropOutputPath,
		PropBaseOutputPath,
		PropAssemblyName,
		PropTargetExt,
		PropTargetFileName,
		PropAppendTargetFrameworkToOutputPath,
	}
}

// PropertySet maps property names to non-blank values. Absent keys mean the
// tool did not report the property.
type PropertySet map[string]string

// Get returns the value for name and whether it was reported.
func (ps PropertySet) Get(name string) (string, bool) {
	value, ok := ps[name]
	return value, ok
}

// First returns the value of the first reported property among names.
func (ps PropertySet) First(names ...string) (string, bool) {
	for _, name := range names {
		if value, ok := ps[name]; ok {
			return value, true
		}
	}
	return "", false
}

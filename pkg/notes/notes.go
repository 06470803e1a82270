// Package notes renders the release description from build results.
//
// The generator is a pure function of its inputs: no filesystem or network
// access, and identical inputs always render identical notes.
package notes

import (
	"fmt"
	"strings"
)

// Asset is the data the notes need about one packaged download.
type Asset struct {
	// Description is the human target name, e.g. "Linux x64".
	Description string
	// Filename is the downloadable archive name.
	Filename string
	// Size is the archive size in bytes.
	Size int64
	// Digest is the SHA-256 digest of the archive.
	Digest string
}

// Input carries everything the generator formats.
type Input struct {
	Version   string
	BuildTime string
	Commit    string
	Toolchain string
	Assets    []Asset
}

// Generator formats release notes for one product.
type Generator struct {
	Owner   string
	Repo    string
	Product string
	// Tagline is the one-line product description under the title.
	Tagline string
}

// HumanSize renders a byte count the way download tables expect it.
func HumanSize(size int64) string {
	const unit = 1024.0
	value := float64(size)
	for _, suffix := range []string{"B", "KB", "MB", "GB"} {
		if value < unit {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
		value /= unit
	}
	return fmt.Sprintf("%.1f TB", value)
}

// Generate renders the full release description.
func (g *Generator) Generate(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %s\n\n", g.Repo, in.Version)
	if g.Tagline != "" {
		fmt.Fprintf(&b, "%s\n\n", g.Tagline)
	}

	b.WriteString("## Downloads\n\n")
	b.WriteString("Choose the appropriate archive for your system:\n\n")
	for _, asset := range in.Assets {
		fmt.Fprintf(&b, "- **%s**: `%s` (%s)\n", asset.Description, asset.Filename, HumanSize(asset.Size))
	}

	fmt.Fprintf(&b, `
## Installation

### Quick Install (Recommended)

**Linux/macOS:**
`+"```bash"+`
curl -fsSL https://raw.githubusercontent.com/%s/%s/main/scripts/install.sh | bash
`+"```"+`

**Windows (PowerShell as Administrator):**
`+"```powershell"+`
irm https://raw.githubusercontent.com/%s/%s/main/scripts/install.ps1 | iex
`+"```"+`

### Manual Installation

1. Download the archive for your system
2. Unpack it: %s
3. Make the binary executable (Linux/macOS): %s
4. Run it: %s

`,
		g.Owner, g.Repo, g.Owner, g.Repo,
		fmt.Sprintf("`unzip %s-%s-<platform>-<arch>.zip`", g.Product, in.Version),
		fmt.Sprintf("`chmod +x %s*`", g.Product),
		fmt.Sprintf("`./%s`", g.Product),
	)

	b.WriteString("## SHA256 Checksums\n\n")
	b.WriteString("Verify your download integrity:\n\n")
	for _, asset := range in.Assets {
		fmt.Fprintf(&b, "- `%s`: `%s`\n", asset.Filename, asset.Digest)
	}

	fmt.Fprintf(&b, `
### Antivirus Notes

The Windows binary is open-source software and can trigger false positive
warnings until it builds reputation. If that happens:

1. Verify the SHA256 hash above against your download
2. Check the digital signature on the exe (Properties → Digital Signatures)
3. Review the source at https://github.com/%s/%s
4. Submit a report at https://www.microsoft.com/en-us/wdsi/filesubmission

`, g.Owner, g.Repo)

	fmt.Fprintf(&b, `## Build Information

- **Version**: %s
- **Build Time**: %s
- **Git Commit**: %s
- **Go Version**: %s

## Support

- **Issues**: https://github.com/%s/%s/issues
- **Discussions**: https://github.com/%s/%s/discussions

---

**Full Changelog**: https://github.com/%s/%s/compare/...%s
`, in.Version, in.BuildTime, in.Commit, in.Toolchain,
		g.Owner, g.Repo, g.Owner, g.Repo, g.Owner, g.Repo, in.Version)

	return b.String()
}

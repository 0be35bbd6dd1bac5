package sympa

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/sympactl/internal/app/template"
	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

const manifestTemplate = `<?xml version='1.0' encoding='utf-8'?>
<list>
    <listname>{{listname}}</listname>
    <type>{{type}}</type>
    <subject>{{subject}}</subject>
    <description>{{description}}</description>
    <status>open</status>
    <language>{{language}}</language>
{{owners}}
    <max_size />
    <reply_to_header>
        <value>sender</value>
        <other_email />
    </reply_to_header>
    <process_archive>off</process_archive>
    <archive>
        <web_access>private</web_access>
    </archive>
    <send>private</send>
    <topic>arts,computing,computing/apps,computing/network,economics,news</topic>
</list>`

const ownerTemplate = `    <owner multiple="1">
        <email>{{email}}</email>
    </owner>`

const defaultLanguage = "ja"

// ManifestSpec holds the fields interpolated into a creation manifest.
type ManifestSpec struct {
	Name        string
	Subject     string
	Description string
	Owners      []string
	ListType    string
	// Language defaults to "ja".
	Language string
}

// GenerateManifest renders the XML document consumed by the create sub-command.
// Owners are trimmed and de-duplicated keeping the first occurrence. Every
// interpolated value is XML-escaped.
func GenerateManifest(spec ManifestSpec) (string, error) {
	if err := domain.ValidateListName(spec.Name); err != nil {
		return "", err
	}
	lang := spec.Language
	if lang == "" {
		lang = defaultLanguage
	}

	blocks := make([]string, 0, len(spec.Owners))
	for _, o := range uniqueOwners(spec.Owners) {
		b, err := template.Render(ownerTemplate, template.Escaped(map[string]string{"email": o}))
		if err != nil {
			return "", err
		}
		blocks = append(blocks, b)
	}
	owners := strings.Join(blocks, "\n")

	fields := template.Escaped(map[string]string{
		"listname":    spec.Name,
		"type":        spec.ListType,
		"subject":     spec.Subject,
		"description": spec.Description,
		"language":    lang,
	})
	return template.Render(manifestTemplate, func(key string) (string, bool) {
		if key == "owners" {
			return owners, true
		}
		return fields(key)
	})
}

func uniqueOwners(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, o := range in {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

// ManifestBuilder fills list-type and language defaults from config.
type ManifestBuilder struct {
	ListType string
	Language string
}

func NewManifestBuilder(cfg domain.Config) *ManifestBuilder {
	return &ManifestBuilder{
		ListType: cfg.Defaults.ListType,
		Language: cfg.Defaults.Language,
	}
}

var _ ports.ManifestBuilder = (*ManifestBuilder)(nil)

// Build uses the list name as subject and embeds the definition's owners.
func (b *ManifestBuilder) Build(name, description string, spec domain.MembershipSpec) (string, error) {
	xml, err := GenerateManifest(ManifestSpec{
		Name:        name,
		Subject:     name,
		Description: description,
		Owners:      spec.Owners,
		ListType:    b.ListType,
		Language:    b.Language,
	})
	if err != nil {
		return "", fmt.Errorf("manifest for %q: %w", name, err)
	}
	return xml, nil
}

// WriteManifest stores manifest in a readable temp .xml file.
func (c *Client) WriteManifest(manifest string) (string, func(), error) {
	return c.writeTemp("sympa_create_", ".xml", manifest)
}

package validate

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/taskmodel/hmstconv/internal/hmst"
)

// Structural checks the document envelope without a schema: well-formed
// XML, the v7 root element and namespace, the mandatory root attributes,
// and at least one child section. Checks run in order and the first
// failure wins.
func Structural(document []byte) error {
	xml := etree.NewDocument()
	if err := xml.ReadFromBytes(document); err != nil {
		return fmt.Errorf("invalid XML: %v", err)
	}
	root := xml.Root()
	if root == nil {
		return fmt.Errorf("invalid XML: document has no root element")
	}

	if root.Tag != hmst.RootTag {
		return fmt.Errorf("root element must be %q, got %q", hmst.RootTag, root.Tag)
	}

	// Resolve the namespace the root element is declared in rather than
	// reading a literal xmlns attribute, so prefixed documents pass.
	if ns := root.NamespaceURI(); ns != hmst.Namespace {
		return fmt.Errorf("invalid namespace: expected %s, got %s", hmst.Namespace, ns)
	}

	if root.SelectAttr("name") == nil {
		return fmt.Errorf("missing 'name' attribute in root element")
	}
	version := root.SelectAttr("version")
	if version == nil {
		return fmt.Errorf("missing 'version' attribute in root element")
	}
	if version.Value != hmst.Version {
		return fmt.Errorf("expected version %s, got %s", hmst.Version, version.Value)
	}

	if !hasSchemaLocation(root) {
		return fmt.Errorf("missing xsi:schemaLocation attribute")
	}

	if len(root.ChildElements()) == 0 {
		return fmt.Errorf("no task elements found in %s root", hmst.RootTag)
	}

	return nil
}

// hasSchemaLocation matches the schemaLocation attribute by its declared
// namespace, whatever prefix the document binds the xsi URI to.
func hasSchemaLocation(root *etree.Element) bool {
	for _, attr := range root.Attr {
		if attr.Key == "schemaLocation" && attr.NamespaceURI() == hmst.XSINamespace {
			return true
		}
	}
	return false
}

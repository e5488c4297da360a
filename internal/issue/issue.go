// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"

	"github.com/overpack/overpack/pkg/vpk"
)

type Id int

const (
	InvalidSourceId Id = iota + 1
	NotFoundId
	MissingFileId
	NameMismatchId
	AmbiguousDefinitionId
	IdentityMismatchId
	UnrecognizedComponentId
	PreconditionViolationId
	MissingManifestId
	MalformedChecksumId
	InvalidDocumentId
	DuplicateComponentId
	ConfigLoadFailedId
)

type MarkdownMsg string

// Issue is a catalogued failure with a Markdown explanation.
type Issue struct {
	id          Id          // ID used to lookup the issue
	slug        string      // name accepted by `overpack issue <slug>`
	kind        error       // sentinel matched with errors.Is; nil when never returned by the engine
	mdMsg       MarkdownMsg // Markdown text that will be rendered
	suggestions []string    // one-line hints attached to actionable errors
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Slug() string {
	return i.slug
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Suggestions() []string {
	return slices.Clone(i.suggestions)
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	invalidSourceIssue = &Issue{
		id:          InvalidSourceId,
		slug:        "invalid-source",
		kind:        vpk.ErrInvalidSource,
		suggestions: []string{"Pass a .vpk archive or an extracted package directory"},
		mdMsg: `
# Not a package!

The location is neither a readable container file nor a directory.

## Things you can try:
- Check the path for typos
- Make sure a .vpk file is a valid zip archive:
~~~
$ unzip -l my-package.vpk
~~~`,
	}

	notFoundIssue = &Issue{
		id:          NotFoundId,
		slug:        "not-found",
		kind:        vpk.ErrNotFound,
		suggestions: []string{"Every package needs a vaultpackage.xml at its root"},
		mdMsg: `
# Package member not found!

The package root must contain **vaultpackage.xml** and a **components/** directory.

## Things you can try:
- If you extracted the archive, point overpack at the directory that holds vaultpackage.xml
- Re-export the package from Vault`,
	}

	missingFileIssue = &Issue{
		id:          MissingFileId,
		slug:        "missing-file",
		kind:        vpk.ErrMissingFile,
		suggestions: []string{"Compare the component directory with a freshly exported package"},
		mdMsg: `
# Component file missing!

A data component needs exactly one **.csv** dataset. A configuration component
needs a **.md5** checksum file and either an **.mdl** definition or a workflow
**.json** document.

## Things you can try:
- Restore the file from the original export
- Run ` + "`overpack inspect`" + ` to see which component number is affected`,
	}

	nameMismatchIssue = &Issue{
		id:          NameMismatchId,
		slug:        "name-mismatch",
		kind:        vpk.ErrNameMismatch,
		suggestions: []string{"Rename the .csv and .xml files so their stems match"},
		mdMsg: `
# Dataset and manifest names differ!

A data component pairs **<label>.csv** with **<label>.xml**. Both files must
share the same stem.

## Things you can try:
- Rename one of the files
- Regenerate the manifest with ` + "`overpack repack --object ... --action ...`",
	}

	ambiguousDefinitionIssue = &Issue{
		id:          AmbiguousDefinitionId,
		slug:        "ambiguous-definition",
		kind:        vpk.ErrAmbiguousDefinition,
		suggestions: []string{"Keep either the .mdl definition or the workflow .json, not both"},
		mdMsg: `
# Ambiguous configuration component!

A configuration component is defined by exactly one of an **.mdl** definition
or a workflow **.json** document. This component has both or neither.`,
	}

	identityMismatchIssue = &Issue{
		id:          IdentityMismatchId,
		slug:        "identity-mismatch",
		kind:        vpk.ErrIdentityMismatch,
		suggestions: []string{"Regenerate the checksum with 'overpack repack --regen-md5'"},
		mdMsg: `
# Component identities disagree!

The checksum file records a component **type.name** that differs from the one
declared by the definition or workflow document.

## Things you can try:
- Check the type and name in the first line of the .mdl definition
- If you renamed the component on purpose, regenerate the checksum:
~~~
$ overpack repack --regen-md5 package.vpk fixed.vpk
~~~`,
	}

	unrecognizedComponentIssue = &Issue{
		id:          UnrecognizedComponentId,
		slug:        "unrecognized-component",
		kind:        vpk.ErrUnrecognizedComponent,
		suggestions: []string{"Remove stray directories from components/"},
		mdMsg: `
# Unrecognized component!

A directory under **components/** holds neither a dataset (**.csv**) nor a
checksum (**.md5**), so it cannot be classified.`,
	}

	preconditionViolationIssue = &Issue{
		id:          PreconditionViolationId,
		slug:        "precondition-violation",
		kind:        vpk.ErrPreconditionViolation,
		suggestions: []string{"Upsert needs --id-param, and the dataset must carry that column"},
		mdMsg: `
# Manifest arguments are inconsistent!

Generating a data manifest requires an object name and an action.

## Rules:
- **Create** must not name an id column
- **Upsert** must name an id column that appears in the dataset header and in every row`,
	}

	missingManifestIssue = &Issue{
		id:          MissingManifestId,
		slug:        "missing-manifest",
		kind:        vpk.ErrMissingManifest,
		suggestions: []string{"Generate a manifest before writing the package"},
		mdMsg: `
# Missing manifest!

A data component cannot be written without its XML manifest, and a package
cannot be written without **vaultpackage.xml**.

## Things you can try:
~~~
$ overpack repack --object product__v --action Create in.vpk out.vpk
~~~`,
	}

	malformedChecksumIssue = &Issue{
		id:          MalformedChecksumId,
		slug:        "malformed-checksum",
		kind:        vpk.ErrMalformedChecksum,
		suggestions: []string{"A .md5 file holds a hash and a type.name, separated by whitespace"},
		mdMsg: `
# Malformed checksum file!

The **.md5** file must contain exactly two tokens:

~~~
6f1ed002ab5595859014ebf0951522d9 Picklist.color__c
~~~`,
	}

	invalidDocumentIssue = &Issue{
		id:          InvalidDocumentId,
		slug:        "invalid-document",
		kind:        vpk.ErrInvalidDocument,
		suggestions: []string{"Run with --verbose to see the parser error"},
		mdMsg: `
# Document could not be parsed!

A definition, workflow, manifest or dataset is malformed.

## Things you can try:
- Workflow documents must be JSON objects with **checksum** and **procDef**
- Definitions must start with a command such as ` + "`RECREATE Picklist color__c`" + `
- Datasets must be valid CSV with a header row`,
	}

	duplicateComponentIssue = &Issue{
		id:          DuplicateComponentId,
		slug:        "duplicate-component",
		kind:        vpk.ErrDuplicateComponent,
		suggestions: []string{"Renumber one of the components"},
		mdMsg: `
# Duplicate component number!

Two components share the same number, so they would be written to the same
directory.`,
	}

	configLoadFailedIssue = &Issue{
		id:          ConfigLoadFailedId,
		slug:        "config-load-failed",
		suggestions: []string{"Run 'overpack config init' to write a fresh config file"},
		mdMsg: `
# Failed to load configuration!

Could not load the overpack configuration file.

## Config file locations:
- Linux: ~/.config/overpack/config.cue
- macOS: ~/Library/Application Support/overpack/config.cue
- Windows: %APPDATA%\overpack\config.cue

## Things you can try:
- Check the CUE syntax of your config file
- Look for typos in OVERPACK_* environment variables
- Print the effective configuration:
~~~
$ overpack config show
~~~`,
	}

	issues = map[Id]*Issue{
		invalidSourceIssue.Id():         invalidSourceIssue,
		notFoundIssue.Id():              notFoundIssue,
		missingFileIssue.Id():           missingFileIssue,
		nameMismatchIssue.Id():          nameMismatchIssue,
		ambiguousDefinitionIssue.Id():   ambiguousDefinitionIssue,
		identityMismatchIssue.Id():      identityMismatchIssue,
		unrecognizedComponentIssue.Id(): unrecognizedComponentIssue,
		preconditionViolationIssue.Id(): preconditionViolationIssue,
		missingManifestIssue.Id():       missingManifestIssue,
		malformedChecksumIssue.Id():     malformedChecksumIssue,
		invalidDocumentIssue.Id():       invalidDocumentIssue,
		duplicateComponentIssue.Id():    duplicateComponentIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	ids := slices.Collect(maps.Keys(issues))
	slices.Sort(ids)

	values := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		values = append(values, issues[id])
	}
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by slug.
func Lookup(slug string) *Issue {
	for _, i := range issues {
		if i.slug == slug {
			return i
		}
	}
	return nil
}

// ForError returns the issue whose error kind err matches, or nil.
func ForError(err error) *Issue {
	if err == nil {
		return nil
	}
	for _, i := range Values() {
		if i.kind != nil && errors.Is(err, i.kind) {
			return i
		}
	}
	return nil
}

// Explain wraps err in an ActionableError linked to the issue it matches.
// Errors that are already actionable are returned as is.
func Explain(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	var ae *ActionableError
	if errors.As(err, &ae) {
		return err
	}

	return NewErrorContext().WithOperation(operation).WithResource(resource).Wrap(err).BuildError()
}

// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"github.com/overpack/overpack/internal/testutil"
)

func TestLoad_FullPackage(t *testing.T) {
	t.Parallel()

	v := loadTree(t, fullTree())

	if v.Manifest.Raw() != rootManifestXML {
		t.Error("root manifest should be kept verbatim")
	}
	if len(v.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(v.Components))
	}

	wantKinds := []Kind{KindData, KindConfiguration, KindConfiguration}
	for i, c := range v.Components {
		if c.Kind() != wantKinds[i] {
			t.Errorf("component %s kind = %q, want %q", c.Number(), c.Kind(), wantKinds[i])
		}
	}

	data, ok := v.Components[0].(*DataComponent)
	if !ok {
		t.Fatalf("component 0 is %T", v.Components[0])
	}
	if data.Label != "label" || data.Manifest.Raw() != labelXML {
		t.Errorf("data component = %+v", data)
	}

	if got := codePaths(v.Codes); !reflect.DeepEqual(got, []string{"javasdk/src/com/acme/Trigger.java"}) {
		t.Errorf("Codes = %v", got)
	}
	if v.Location != "fixture.vpk" {
		t.Errorf("Location = %q", v.Location)
	}
}

func TestLoad_ZipAndDirectoryAgree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tr := fullTree()
	testutil.MustWriteTree(t, filepath.Join(dir, "unzipped"), tr)
	testutil.MustWriteZip(t, filepath.Join(dir, "package.vpk"), tr)

	fromDir, err := Load(filepath.Join(dir, "unzipped"))
	if err != nil {
		t.Fatalf("Load(directory) error = %v", err)
	}
	fromZip, err := Load(filepath.Join(dir, "package.vpk"))
	if err != nil {
		t.Fatalf("Load(container) error = %v", err)
	}

	assertSamePackage(t, fromDir, fromZip)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tree testutil.Tree
		want error
	}{
		{
			name: "missing root manifest",
			tree: testutil.Tree{"components/00001/label.csv": labelCsv, "components/00001/label.xml": labelXML},
			want: ErrNotFound,
		},
		{
			name: "unrecognized component",
			tree: testutil.Tree{
				"vaultpackage.xml":           rootManifestXML,
				"components/00001/label.csv": labelCsv,
				"components/00001/label.xml": labelXML,
				"components/00002/notes.txt": "?",
			},
			want: ErrUnrecognizedComponent,
		},
		{
			name: "data stems differ",
			tree: testutil.Tree{
				"vaultpackage.xml":           rootManifestXML,
				"components/00001/label.csv": labelCsv,
				"components/00001/other.xml": labelXML,
			},
			want: ErrNameMismatch,
		},
		{
			name: "bad configuration component",
			tree: testutil.Tree{
				"vaultpackage.xml":                 rootManifestXML,
				"components/00001/Object.acme.md5": "abc Object.other",
				"components/00001/Object.acme.mdl": "RECREATE Object acme (",
			},
			want: ErrIdentityMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.MustWriteTree(t, dir, tt.tree)
			if _, err := Load(dir); !errors.Is(err, tt.want) {
				t.Fatalf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "absent.vpk")); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("Load(absent) error = %v, want ErrInvalidSource", err)
	}
}

func TestLoad_NoComponentsDirectory(t *testing.T) {
	t.Parallel()

	v := loadTree(t, testutil.Tree{"vaultpackage.xml": rootManifestXML, "Only.java": "class Only {}"})
	if len(v.Components) != 0 {
		t.Errorf("Components = %v, want none", v.Components)
	}
	if len(v.Codes) != 1 {
		t.Errorf("Codes = %v, want one", v.Codes)
	}
}

func TestLoad_CustomParser(t *testing.T) {
	t.Parallel()

	tr := testutil.Tree{
		"vaultpackage.xml":                 rootManifestXML,
		"components/00001/Object.acme.md5": "abc Object.acme",
		"components/00001/Object.acme.mdl": "opaque",
	}
	v := loadTree(t, tr, WithMdlParser(fixedParser{id: MdlIdentity{"Object", "acme"}}))
	if c := v.Components[0].(*ConfigurationComponent); c.Identity() != "Object.acme" {
		t.Errorf("Identity() = %q", c.Identity())
	}
}

func TestDump_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatArchive, FormatDirectory} {
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			original := loadTree(t, fullTree())

			dest, err := original.Dump("/out/pkg", WithFs(fs), WithFormat(format), WithStagingDir("/staging"))
			if err != nil {
				t.Fatalf("Dump() error = %v", err)
			}
			if dest != "/out/pkg" {
				t.Errorf("Dump() = %q", dest)
			}

			reloaded, err := Load(dest, WithFs(fs))
			if err != nil {
				t.Fatalf("Load(dumped) error = %v", err)
			}
			assertSamePackage(t, original, reloaded)

			leftovers, err := afero.ReadDir(fs, "/staging")
			if err != nil {
				t.Fatal(err)
			}
			if len(leftovers) != 0 {
				t.Errorf("staging area not removed: %d entries left", len(leftovers))
			}
		})
	}
}

func TestDump_DataComponentScenario(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteTree(t, filepath.Join(dir, "src"), testutil.Tree{
		"vaultpackage.xml":           rootManifestXML,
		"components/00001/label.csv": labelCsv,
		"components/00001/label.xml": labelXML,
	})

	first, err := Load(filepath.Join(dir, "src"))
	if err != nil {
		t.Fatalf("Load(directory) error = %v", err)
	}
	container, err := first.Dump(filepath.Join(dir, "out", "label.vpk"))
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	second, err := Load(container)
	if err != nil {
		t.Fatalf("Load(container) error = %v", err)
	}

	for i, v := range []*Vpk{first, second} {
		data, ok := v.Components[0].(*DataComponent)
		if !ok {
			t.Fatalf("load %d: component is %T", i, v.Components[0])
		}
		records, err := data.Data.Records()
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 2 {
			t.Errorf("load %d: len(records) = %d, want 2", i, len(records))
		}
	}
	firstManifest := first.Components[0].(*DataComponent).Manifest.Raw()
	secondManifest := second.Components[0].(*DataComponent).Manifest.Raw()
	if firstManifest != secondManifest {
		t.Errorf("manifest changed across dump: %q != %q", firstManifest, secondManifest)
	}

	members := testutil.MustReadZip(t, container)
	for _, name := range []string{"vaultpackage.xml", "components/00001/label.csv", "components/00001/label.xml"} {
		if _, ok := members[name]; !ok {
			t.Errorf("container is missing %s", name)
		}
	}
}

func TestDump_RegeneratedArtifacts(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	v := loadTree(t, fullTree())

	for _, c := range v.Components {
		switch c := c.(type) {
		case *DataComponent:
			m, err := c.GenerateManifest(ManifestParams{ObjectName: "product__v", DataType: "Object", Action: ActionCreate})
			if err != nil {
				t.Fatal(err)
			}
			c.Manifest = m
		case *ConfigurationComponent:
			m, err := c.GenerateMd5()
			if err != nil {
				t.Fatal(err)
			}
			c.Md5 = m
		}
	}

	if _, err := v.Dump("/out/regen.vpk", WithFs(fs)); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	reloaded, err := Load("/out/regen.vpk", WithFs(fs))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	workflow := reloaded.Components[2].(*ConfigurationComponent)
	if workflow.Md5.Text() != "abc123 Workflow.lc1.pk1" {
		t.Errorf("workflow checksum = %q", workflow.Md5.Text())
	}
	data := reloaded.Components[0].(*DataComponent)
	root, err := data.Manifest.Parsed()
	if err != nil {
		t.Fatal(err)
	}
	if count, _ := root.Child("dataset").ChildText("recordcount"); count != "2" {
		t.Errorf("recordcount = %q, want 2", count)
	}
}

func TestDump_Errors(t *testing.T) {
	t.Parallel()

	t.Run("data component without manifest", func(t *testing.T) {
		t.Parallel()

		v := loadTree(t, fullTree())
		v.Components[0].(*DataComponent).Manifest = nil
		_, err := v.Dump("/out/x.vpk", WithFs(afero.NewMemMapFs()))
		if !errors.Is(err, ErrMissingManifest) {
			t.Errorf("Dump() error = %v, want ErrMissingManifest", err)
		}
	})

	t.Run("missing root manifest", func(t *testing.T) {
		t.Parallel()

		v := &Vpk{}
		if _, err := v.Dump("/out/x.vpk", WithFs(afero.NewMemMapFs())); !errors.Is(err, ErrMissingManifest) {
			t.Errorf("Dump() error = %v, want ErrMissingManifest", err)
		}
	})

	t.Run("invalid configuration component", func(t *testing.T) {
		t.Parallel()

		v := loadTree(t, fullTree())
		v.Components[1].(*ConfigurationComponent).ComponentName = "renamed__c"
		if _, err := v.Dump("/out/x.vpk", WithFs(afero.NewMemMapFs())); !errors.Is(err, ErrIdentityMismatch) {
			t.Errorf("Dump() error = %v, want ErrIdentityMismatch", err)
		}
	})

	t.Run("duplicate component numbers", func(t *testing.T) {
		t.Parallel()

		v := loadTree(t, fullTree())
		v.Components = append(v.Components, v.Components[0])
		if _, err := v.Dump("/out/x.vpk", WithFs(afero.NewMemMapFs())); !errors.Is(err, ErrDuplicateComponent) {
			t.Errorf("Dump() error = %v, want ErrDuplicateComponent", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		v := loadTree(t, fullTree())
		if _, err := v.Dump("/out/x", WithFs(afero.NewMemMapFs()), WithFormat("tarball")); err == nil {
			t.Error("Dump() should reject an unknown format")
		}
	})

	t.Run("staging removed on failure", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		if err := fs.MkdirAll("/out/existing", 0o755); err != nil {
			t.Fatal(err)
		}
		v := loadTree(t, fullTree())
		_, err := v.Dump("/out/existing", WithFs(fs), WithFormat(FormatDirectory), WithStagingDir("/staging"))
		if err == nil {
			t.Fatal("Dump() should fail for an existing directory")
		}
		leftovers, err := afero.ReadDir(fs, "/staging")
		if err != nil {
			t.Fatal(err)
		}
		if len(leftovers) != 0 {
			t.Errorf("staging area not removed: %d entries left", len(leftovers))
		}
	})
}

func TestSummary(t *testing.T) {
	t.Parallel()

	s, err := loadTree(t, fullTree()).Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.DataComponents != 1 || s.ConfigurationComponents != 2 {
		t.Errorf("counts = (%d, %d), want (1, 2)", s.DataComponents, s.ConfigurationComponents)
	}
	want := []ComponentSummary{
		{Number: "00001", Kind: KindData, Identity: "label", Records: 2, HasManifest: true},
		{Number: "00002", Kind: KindConfiguration, Identity: "Picklist.color__c", Definition: "mdl", Checksum: md5Hex(picklistMdl), HasDep: true},
		{Number: "00003", Kind: KindConfiguration, Identity: "Workflow.lc1.pk1", Definition: "workflow", Checksum: "abc123"},
	}
	if !reflect.DeepEqual(s.Components, want) {
		t.Errorf("Components = %+v, want %+v", s.Components, want)
	}
	if !reflect.DeepEqual(s.Codes, []string{"javasdk/src/com/acme/Trigger.java"}) {
		t.Errorf("Codes = %v", s.Codes)
	}
}

// assertSamePackage compares identities and every raw field.
func assertSamePackage(t *testing.T, a, b *Vpk) {
	t.Helper()

	if a.Manifest.Raw() != b.Manifest.Raw() {
		t.Error("root manifests differ")
	}
	if len(a.Components) != len(b.Components) {
		t.Fatalf("component counts differ: %d != %d", len(a.Components), len(b.Components))
	}
	for i := range a.Components {
		ca, cb := a.Components[i], b.Components[i]
		if ca.Number() != cb.Number() || ca.Kind() != cb.Kind() {
			t.Errorf("component %d: (%s, %s) != (%s, %s)", i, ca.Number(), ca.Kind(), cb.Number(), cb.Kind())
			continue
		}
		switch x := ca.(type) {
		case *DataComponent:
			y := cb.(*DataComponent)
			if x.Label != y.Label || x.Data.Raw() != y.Data.Raw() || x.Manifest.Raw() != y.Manifest.Raw() {
				t.Errorf("data component %s differs", x.Number())
			}
		case *ConfigurationComponent:
			y := cb.(*ConfigurationComponent)
			if x.Identity() != y.Identity() {
				t.Errorf("configuration %s identity %q != %q", x.Number(), x.Identity(), y.Identity())
			}
			if x.Md5.Text() != y.Md5.Text() {
				t.Errorf("configuration %s checksum %q != %q", x.Number(), x.Md5.Text(), y.Md5.Text())
			}
			if (x.Mdl == nil) != (y.Mdl == nil) || (x.Mdl != nil && x.Mdl.Raw() != y.Mdl.Raw()) {
				t.Errorf("configuration %s definition differs", x.Number())
			}
			if (x.Workflow == nil) != (y.Workflow == nil) || (x.Workflow != nil && x.Workflow.Raw() != y.Workflow.Raw()) {
				t.Errorf("configuration %s workflow differs", x.Number())
			}
			if (x.Dep == nil) != (y.Dep == nil) || (x.Dep != nil && x.Dep.Raw() != y.Dep.Raw()) {
				t.Errorf("configuration %s dependency differs", x.Number())
			}
		}
	}
	if !reflect.DeepEqual(codePaths(a.Codes), codePaths(b.Codes)) {
		t.Errorf("codes differ: %v != %v", codePaths(a.Codes), codePaths(b.Codes))
	}
	for i := range a.Codes {
		if i < len(b.Codes) && a.Codes[i].Content != b.Codes[i].Content {
			t.Errorf("code %s content differs", a.Codes[i].Path)
		}
	}
}

func TestVpk_Validate(t *testing.T) {
	t.Parallel()

	v := loadTree(t, fullTree())
	if err := v.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	for _, c := range v.Components {
		if dc, ok := c.(*DataComponent); ok {
			dc.Manifest = nil
		}
	}
	if err := v.Validate(); !errors.Is(err, ErrMissingManifest) {
		t.Errorf("Validate() error = %v, want ErrMissingManifest", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"testing"

	"github.com/overpack/overpack/internal/testutil"
	"github.com/overpack/overpack/pkg/vpkfs"
)

const (
	rootManifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<vaultpackage xmlns="https://veevavault.com/">
  <name>PKG-0001</name>
  <source><vault>1234</vault></source>
</vaultpackage>
`
	labelCsv = "id,name\n1,alpha\n2,beta\n"
	labelXML = `<?xml version="1.0" encoding="UTF-8"?>
<datastep><label>label</label><steprequired>false</steprequired></datastep>
`
	picklistMdl  = "RECREATE Picklist color__c (\n  label('Color'),\n  active(true)\n);\n"
	workflowJSON = `{
  "checksum": "abc123",
  "procDef": {
    "lifecyclePublicKey": "lc1",
    "publicKey": "pk1",
    "states": ["draft", "approved"]
  },
  "label": "Approval"
}
`
)

func picklistMd5() string {
	return md5Hex(picklistMdl) + " Picklist.color__c\n"
}

// fullTree is a package exercising every component shape.
func fullTree() testutil.Tree {
	return testutil.Tree{
		"vaultpackage.xml":                             rootManifestXML,
		"components/00001/label.csv":                   labelCsv,
		"components/00001/label.xml":                   labelXML,
		"components/00002/Picklist.color__c.md5":       picklistMd5(),
		"components/00002/Picklist.color__c.mdl":       picklistMdl,
		"components/00002/Picklist.color__c.dep":       "id,target\n7,Object.account\n",
		"components/00003/Workflow.lc1.pk1.json":       workflowJSON,
		"components/00003/Workflow.lc1.pk1.md5":        "abc123 Workflow.lc1.pk1",
		"components/.DS_Store":                         "\x00\x01",
		"javasdk/src/com/acme/Trigger.java":            "package com.acme;\nclass Trigger {}\n",
		"__MACOSX/javasdk/src/com/acme/._Trigger.java": "resource fork",
	}
}

func loadTree(t *testing.T, tr testutil.Tree, opts ...Option) *Vpk {
	t.Helper()
	v, err := LoadFS(vpkfs.OpenFS(tr.MapFS(), vpkfs.KindFS, "fixture.vpk"), opts...)
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	return v
}

func componentDir(tr testutil.Tree, number string) vpkfs.Path {
	return vpkfs.OpenFS(tr.MapFS(), vpkfs.KindFS, "fixture.vpk").Root().Join(ComponentsDir, number)
}

func strPtr(s string) *string { return &s }

// Package share hands a decoded file batch to the OS-native share facility.
package share

import (
	"github.com/quickshare/sharesheet-go/failure"
	"github.com/quickshare/sharesheet-go/tool"
	"github.com/quickshare/sharesheet-go/types"
)

// FileRef is one file as the native facility sees it.
type FileRef struct {
	Path        string `json:"path"`
	DisplayName string `json:"displayName"`
}

// Request is the single batched call handed to the facility.
type Request struct {
	Files   []FileRef `json:"files"`
	Caption string    `json:"caption"`
}

// Facility is the OS share surface. Implementations trigger the native share
// UI; the dialog's outcome is not observable through this interface.
type Facility interface {
	Share(req Request) error
}

// Invoker maps share entities onto the facility contract.
type Invoker struct {
	facility Facility
	caption  string
}

func NewInvoker(facility Facility, caption string) *Invoker {
	return &Invoker{facility: facility, caption: caption}
}

// ShareFiles invokes the facility exactly once with the whole batch. An empty
// batch fails without touching the facility. Success means the call was issued
// without fault, not that the user completed sharing.
func (inv *Invoker) ShareFiles(files []types.ShareFile) error {
	if len(files) == 0 {
		return failure.NoFilesToShare()
	}

	refs := make([]FileRef, 0, len(files))
	for _, f := range files {
		refs = append(refs, FileRef{Path: f.FullPath(), DisplayName: f.Name})
	}

	tool.DefaultLogger.Infof("Invoking share facility with %d file(s)", len(refs))
	if err := inv.facility.Share(Request{Files: refs, Caption: inv.caption}); err != nil {
		return failure.WrapShareError(err)
	}
	return nil
}

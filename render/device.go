/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package render

import (
	gocontext "context"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/model"
	"github.com/pdfrast/pdfrast/render/context"
)

// Device renders PDF pages onto canvas targets supplied by the caller. The
// concrete canvas backend implements context.Context; one device can render
// multiple pages, each with its own canvas.
type Device struct {
	renderer *renderer
}

// NewDevice returns a new render device.
func NewDevice() *Device {
	return &Device{renderer: newRenderer()}
}

// Render renders `page` onto `ctx`. The output reflects best-effort
// rendering: recoverable problems are logged and skipped.
func (d *Device) Render(ctx context.Context, page *model.PdfPage) error {
	return d.RenderWithContext(gocontext.Background(), ctx, page)
}

// RenderWithContext renders `page` onto `ctx`, honoring cancellation from
// `cancelCtx` at operator, row and patch boundaries. On cancellation the
// canvas is left in a consistent state with balanced saves.
func (d *Device) RenderWithContext(cancelCtx gocontext.Context, ctx context.Context, page *model.PdfPage) error {
	err := d.renderer.renderPage(ctx, page, cancelCtx)
	if err != nil {
		common.Log.Debug("Render finished with error: %v", err)
	}
	return err
}

package validator

// PhotoUpload is the validated metadata sent alongside an uploaded file.
type PhotoUpload struct {
	CatID    uint `mapstructure:"catId"`
	Cover    bool `mapstructure:"cover"`
	Position int  `mapstructure:"position"`
}

// PhotoCreate is a validated photo that references an external URL.
type PhotoCreate struct {
	PhotoUpload `mapstructure:",squash"`
	URL         string `mapstructure:"url"`
}

// PhotoPatch is a validated partial update of a photo.
type PhotoPatch struct {
	URL      *string `mapstructure:"url"`
	Cover    *bool   `mapstructure:"cover"`
	Position *int    `mapstructure:"position"`
}

// Updates returns the column/value map of the provided fields. Cover is
// excluded; setting it needs the sibling reset done by the photo service.
func (p *PhotoPatch) Updates() map[string]any {
	updates := map[string]any{}
	if p.URL != nil {
		updates["url"] = *p.URL
	}
	if p.Position != nil {
		updates["position"] = *p.Position
	}
	return updates
}

// Empty reports whether the patch changes nothing.
func (p *PhotoPatch) Empty() bool {
	return p.URL == nil && p.Cover == nil && p.Position == nil
}

func readPhotoMeta(r *reader) {
	r.id("catId", true, false)
	r.boolean("cover", false)
	r.integer("position", false, 0)
}

// ValidatePhotoUpload validates the form fields of a multipart photo upload.
// Cover defaults to false and position to 0.
func ValidatePhotoUpload(raw map[string]any) (*PhotoUpload, Violations) {
	r := newReader(raw, modeCreate)
	readPhotoMeta(r)

	var p PhotoUpload
	r.decode(&p)
	if len(r.v) > 0 {
		return nil, r.v
	}
	return &p, nil
}

// ValidatePhotoCreate validates a photo created from an external URL.
func ValidatePhotoCreate(raw map[string]any) (*PhotoCreate, Violations) {
	r := newReader(raw, modeCreate)
	readPhotoMeta(r)
	r.url("url", true)

	var p PhotoCreate
	r.decode(&p)
	if len(r.v) > 0 {
		return nil, r.v
	}
	return &p, nil
}

// ValidatePhotoUpdate validates a partial photo update. None of the fields
// can be cleared.
func ValidatePhotoUpdate(raw map[string]any) (*PhotoPatch, Violations) {
	r := newReader(raw, modeUpdate)
	r.url("url", false)
	r.boolean("cover", false)
	r.integer("position", false, 0)

	var p PhotoPatch
	r.decode(&p)
	if len(r.v) > 0 {
		return nil, r.v
	}
	return &p, nil
}

// ReorderItem moves one photo to a new position.
type ReorderItem struct {
	ID       uint `json:"id" binding:"required,min=1"`
	Position *int `json:"position" binding:"required,min=0,max=2147483647"`
}

// ReorderRequest is the body of a photo reorder call.
type ReorderRequest struct {
	Items []ReorderItem `json:"items" binding:"required,min=1,max=500,dive"`
}

// ValidateReorder rejects a reorder request that lists a photo twice. Field
// checks run when the request is bound.
func ValidateReorder(req *ReorderRequest) Violations {
	v := Violations{}
	seen := make(map[uint]bool, len(req.Items))
	for _, it := range req.Items {
		if seen[it.ID] {
			v.Add("items", "photo ids must be unique")
			break
		}
		seen[it.ID] = true
	}
	return v
}

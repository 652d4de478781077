package gamebanana

// Raw API shapes: the GameBanana apiv11 prefixes every field with a
// Hungarian-style type marker (_s, _n, _b, _a, _id). They are decoded
// here and converted to the clean types below before leaving the package.

type modRaw struct {
	ID                int64           `json:"_idRow"`
	Name              string          `json:"_sName"`
	ProfileURL        string          `json:"_sProfileUrl"`
	DateAdded         int64           `json:"_tsDateAdded"`
	DateModified      int64           `json:"_tsDateModified"`
	LikeCount         int64           `json:"_nLikeCount"`
	ViewCount         int64           `json:"_nViewCount"`
	HasFiles          bool            `json:"_bHasFiles"`
	InitialVisibility string          `json:"_sInitialVisibility"`
	HasContentRatings bool            `json:"_bHasContentRatings"`
	Submitter         *submitterRaw   `json:"_aSubmitter"`
	PreviewMedia      *previewRaw     `json:"_aPreviewMedia"`
	RootCategory      *categoryRaw    `json:"_aRootCategory"`
}

type submitterRaw struct {
	ID        int64  `json:"_idRow"`
	Name      string `json:"_sName"`
	AvatarURL string `json:"_sAvatarUrl"`
}

type previewRaw struct {
	Images []imageRaw `json:"_aImages"`
}

type imageRaw struct {
	BaseURL string `json:"_sBaseUrl"`
	File    string `json:"_sFile"`
	File220 string `json:"_sFile220"`
	File530 string `json:"_sFile530"`
}

type categoryRaw struct {
	ID         int64  `json:"_idRow"`
	Name       string `json:"_sName"`
	ModelName  string `json:"_sModelName"`
	ProfileURL string `json:"_sProfileUrl"`
	IconURL    string `json:"_sIconUrl"`
}

type pageMetadataRaw struct {
	RecordCount int64 `json:"_nRecordCount"`
	IsComplete  bool  `json:"_bIsComplete"`
	PerPage     int   `json:"_nPerpage"`
}

type modsPageRaw struct {
	Metadata pageMetadataRaw `json:"_aMetadata"`
	Records  []modRaw        `json:"_aRecords"`
}

type fileRaw struct {
	ID            int64  `json:"_idRow"`
	FileName      string `json:"_sFile"`
	FileSize      int64  `json:"_nFilesize"`
	DownloadURL   string `json:"_sDownloadUrl"`
	DownloadCount int64  `json:"_nDownloadCount"`
	Description   string `json:"_sDescription"`
}

type modDetailsRaw struct {
	ID           int64        `json:"_idRow"`
	Name         string       `json:"_sName"`
	Text         string       `json:"_sText"`
	Category     *categoryRaw `json:"_aCategory"`
	Files        []fileRaw    `json:"_aFiles"`
	PreviewMedia *previewRaw  `json:"_aPreviewMedia"`
}

type sectionRaw struct {
	PluralTitle       string `json:"_sPluralTitle"`
	ModelName         string `json:"_sModelName"`
	CategoryModelName string `json:"_sCategoryModelName"`
	ItemCount         int64  `json:"_nItemCount"`
}

type categoryNodeRaw struct {
	ID         int64             `json:"_idRow"`
	Name       string            `json:"_sName"`
	ProfileURL string            `json:"_sProfileUrl"`
	ItemCount  int64             `json:"_nItemCount"`
	IconURL    string            `json:"_sIconUrl"`
	ParentID   int64             `json:"_idParentRow"`
	Children   []categoryNodeRaw `json:"_aChildren"`
}

// Clean shapes handed to callers.

// Mod is one catalog listing from a browse page.
type Mod struct {
	ID           int64
	Name         string
	ProfileURL   string
	DateAdded    int64
	DateModified int64
	LikeCount    int64
	ViewCount    int64
	HasFiles     bool
	NSFW         bool
	Submitter    string
	ThumbnailURL string
	Category     string
}

// ModsPage is one page of browse results.
type ModsPage struct {
	Records    []Mod
	TotalCount int64
	IsComplete bool
	PerPage    int
}

// File is one downloadable file attached to a mod.
type File struct {
	ID            int64
	FileName      string
	FileSize      int64
	DownloadURL   string
	DownloadCount int64
	Description   string
}

// ModDetails carries the full record for one mod, including its files.
type ModDetails struct {
	ID           int64
	Name         string
	Description  string
	CategoryID   int64
	CategoryName string
	Files        []File
	ThumbnailURL string
}

// Section is one submission type the game accepts (Mod, Sound, Spray...).
type Section struct {
	PluralTitle       string
	ModelName         string
	CategoryModelName string
	ItemCount         int64
}

// CategoryNode is one node of a section's category tree.
type CategoryNode struct {
	ID         int64
	Name       string
	ProfileURL string
	ItemCount  int64
	IconURL    string
	ParentID   int64
	Children   []CategoryNode
}

func (r modRaw) clean() Mod {
	m := Mod{
		ID:           r.ID,
		Name:         r.Name,
		ProfileURL:   r.ProfileURL,
		DateAdded:    r.DateAdded,
		DateModified: r.DateModified,
		LikeCount:    r.LikeCount,
		ViewCount:    r.ViewCount,
		HasFiles:     r.HasFiles,
		// "warn" visibility and content ratings both flag adult content.
		NSFW: r.InitialVisibility == "warn" || r.HasContentRatings,
	}
	if r.Submitter != nil {
		m.Submitter = r.Submitter.Name
	}
	if r.RootCategory != nil {
		m.Category = r.RootCategory.Name
	}
	m.ThumbnailURL = r.PreviewMedia.thumbnail()
	return m
}

// thumbnail prefers the 530px rendition when the API provides one.
func (p *previewRaw) thumbnail() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	img := p.Images[0]
	file := img.File530
	if file == "" {
		file = img.File
	}
	if img.BaseURL == "" || file == "" {
		return ""
	}
	return img.BaseURL + "/" + file
}

func (r modDetailsRaw) clean() *ModDetails {
	d := &ModDetails{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Text,
		ThumbnailURL: r.PreviewMedia.thumbnail(),
	}
	if r.Category != nil {
		d.CategoryID = r.Category.ID
		d.CategoryName = r.Category.Name
	}
	for _, f := range r.Files {
		d.Files = append(d.Files, File(f))
	}
	return d
}

func (r categoryNodeRaw) clean() CategoryNode {
	node := CategoryNode{
		ID:         r.ID,
		Name:       r.Name,
		ProfileURL: r.ProfileURL,
		ItemCount:  r.ItemCount,
		IconURL:    r.IconURL,
		ParentID:   r.ParentID,
	}
	for _, child := range r.Children {
		node.Children = append(node.Children, child.clean())
	}
	return node
}

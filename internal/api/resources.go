package api

import "net/http"

// FieldKind declares how a field's values are typed for sorting and
// form rendering.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindBool
)

// Column describes one table column of a resource list screen.
type Column struct {
	ID       string
	Label    string
	Kind     FieldKind
	Sortable bool
}

// Field describes one editable field of a resource dialog.
type Field struct {
	Name      string
	Label     string
	Kind      FieldKind
	Required  bool
	Multiline bool
	File      bool     // file-upload field ("logoFile" style); the draft tracks a preview for it
	Options   []string // non-empty for fixed-choice fields
	Default   any
}

// Spec describes one backend resource: its endpoints, encoding, table
// columns, dialog fields and cache dependencies.
type Spec struct {
	Name         string
	Title        string
	Path         string
	Multipart    bool
	UpdateMethod string   // defaults to PUT
	Dependents   []string // cache keys invalidated alongside this resource
	CanCreate    bool
	CanUpdate    bool
	CanDelete    bool
	Columns      []Column
	Fields       []Field
}

// RequiredFields returns the names of fields that must be non-empty
// before a create or update is sent.
func (s Spec) RequiredFields() []string {
	var required []string
	for _, f := range s.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return required
}

// FileFields returns the names of the file-upload fields.
func (s Spec) FileFields() []string {
	var files []string
	for _, f := range s.Fields {
		if f.File {
			files = append(files, f.Name)
		}
	}
	return files
}

func (s Spec) updateMethod() string {
	if s.UpdateMethod != "" {
		return s.UpdateMethod
	}
	return http.MethodPut
}

// Resources lists every back-office resource in sidebar order.
var Resources = []Spec{
	{
		Name:      "products",
		Title:     "محصولات",
		Path:      "/api/products",
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "name", Label: "نام", Kind: KindString, Sortable: true},
			{ID: "price", Label: "قیمت", Kind: KindNumber, Sortable: true},
			{ID: "stock", Label: "موجودی", Kind: KindNumber, Sortable: true},
			{ID: "category", Label: "دسته‌بندی", Kind: KindString, Sortable: true},
			{ID: "isAvailable", Label: "موجود", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "name", Label: "نام", Required: true},
			{Name: "price", Label: "قیمت", Kind: KindNumber},
			{Name: "originalPrice", Label: "قیمت اصلی", Kind: KindNumber},
			{Name: "discount", Label: "تخفیف", Kind: KindNumber, Default: float64(0)},
			{Name: "stock", Label: "موجودی", Kind: KindNumber, Default: float64(0)},
			{Name: "unit", Label: "واحد", Default: "کیلو"},
			{Name: "brand", Label: "برند"},
			{Name: "category", Label: "دسته‌بندی"},
			{Name: "shortDescription", Label: "توضیح کوتاه"},
			{Name: "description", Label: "توضیحات", Multiline: true},
			{Name: "weight", Label: "وزن"},
			{Name: "dimensions", Label: "ابعاد"},
			{Name: "countryOfOrigin", Label: "کشور سازنده"},
			{Name: "tags", Label: "برچسب‌ها"},
			{Name: "isAvailable", Label: "موجود", Kind: KindBool, Default: true},
			{Name: "isFeatured", Label: "ویژه", Kind: KindBool, Default: false},
		},
	},
	{
		Name:       "inventory",
		Title:      "موجودی انبار",
		Path:       "/api/inventory",
		Dependents: []string{"products"},
		Columns: []Column{
			{ID: "name", Label: "نام", Kind: KindString, Sortable: true},
			{ID: "stock", Label: "موجودی", Kind: KindNumber, Sortable: true},
			{ID: "unit", Label: "واحد", Kind: KindString},
		},
	},
	{
		Name:      "orders",
		Title:     "سفارش‌ها",
		Path:      "/api/orders",
		CanDelete: true,
		Columns: []Column{
			{ID: "orderNumber", Label: "شماره سفارش", Kind: KindString, Sortable: true},
			{ID: "customerName", Label: "مشتری", Kind: KindString, Sortable: true},
			{ID: "totalAmount", Label: "مبلغ کل", Kind: KindNumber, Sortable: true},
			{ID: "status", Label: "وضعیت", Kind: KindString, Sortable: true},
			{ID: "createdAt", Label: "تاریخ ثبت", Kind: KindString, Sortable: true},
		},
	},
	{
		Name:      "blogs",
		Title:     "وبلاگ",
		Path:      "/api/blogs",
		Multipart: true,
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "title", Label: "عنوان", Kind: KindString, Sortable: true},
			{ID: "author", Label: "نویسنده", Kind: KindString, Sortable: true},
			{ID: "isPublished", Label: "منتشر شده", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "title", Label: "عنوان", Required: true},
			{Name: "excerpt", Label: "خلاصه"},
			{Name: "content", Label: "متن", Multiline: true},
			{Name: "author", Label: "نویسنده"},
			{Name: "tags", Label: "برچسب‌ها"},
			{Name: "coverImage", Label: "تصویر کاور"},
			{Name: "coverImageFile", Label: "فایل تصویر کاور", File: true},
			{Name: "isPublished", Label: "انتشار", Kind: KindBool, Default: false},
		},
	},
	{
		Name:      "categories",
		Title:     "دسته‌بندی‌ها",
		Path:      "/api/categories",
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "name", Label: "نام", Kind: KindString, Sortable: true},
			{ID: "order", Label: "ترتیب", Kind: KindNumber, Sortable: true},
			{ID: "isActive", Label: "فعال", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "name", Label: "نام", Required: true},
			{Name: "order", Label: "ترتیب", Kind: KindNumber, Default: float64(0)},
			{Name: "isActive", Label: "فعال", Kind: KindBool, Default: true},
		},
	},
	{
		Name:      "users",
		Title:     "کاربران",
		Path:      "/api/users",
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "name", Label: "نام", Kind: KindString, Sortable: true},
			{ID: "email", Label: "ایمیل", Kind: KindString, Sortable: true},
			{ID: "role", Label: "نقش", Kind: KindString, Sortable: true},
			{ID: "isActive", Label: "فعال", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "name", Label: "نام", Required: true},
			{Name: "email", Label: "ایمیل", Required: true},
			{Name: "phone", Label: "تلفن"},
			{Name: "role", Label: "نقش", Options: []string{"customer", "admin"}, Default: "customer"},
			{Name: "isActive", Label: "فعال", Kind: KindBool, Default: true},
		},
	},
	{
		Name:         "reviews",
		Title:        "نظرات سفارش",
		Path:         "/api/reviews",
		UpdateMethod: http.MethodPatch,
		CanUpdate:    true, CanDelete: true,
		Columns: []Column{
			{ID: "productName", Label: "محصول", Kind: KindString, Sortable: true},
			{ID: "userName", Label: "کاربر", Kind: KindString, Sortable: true},
			{ID: "rating", Label: "امتیاز", Kind: KindNumber, Sortable: true},
			{ID: "isApproved", Label: "تایید شده", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "comment", Label: "نظر", Multiline: true},
			{Name: "isApproved", Label: "تایید", Kind: KindBool, Default: false},
		},
	},
	{
		Name:      "ads",
		Title:     "تبلیغات",
		Path:      "/api/ads",
		Multipart: true,
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "title", Label: "عنوان", Kind: KindString, Sortable: true},
			{ID: "placement", Label: "جایگاه", Kind: KindString, Sortable: true},
			{ID: "priority", Label: "اولویت", Kind: KindNumber, Sortable: true},
			{ID: "active", Label: "فعال", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "title", Label: "عنوان", Required: true},
			{Name: "subtitle", Label: "زیرعنوان"},
			{Name: "description", Label: "توضیحات", Multiline: true},
			{Name: "image", Label: "آدرس تصویر"},
			{Name: "imageFile", Label: "فایل تصویر", File: true},
			{Name: "ctaLabel", Label: "متن دکمه", Default: "مشاهده"},
			{Name: "ctaLink", Label: "لینک دکمه", Default: "/"},
			{Name: "placement", Label: "جایگاه", Options: []string{"hero", "sidebar", "footer"}, Default: "hero"},
			{Name: "priority", Label: "اولویت", Kind: KindNumber, Default: float64(1)},
			{Name: "active", Label: "فعال", Kind: KindBool, Default: true},
		},
	},
	{
		Name:      "comments",
		Title:     "دیدگاه‌ها",
		Path:      "/api/comments",
		CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "author", Label: "نویسنده", Kind: KindString, Sortable: true},
			{ID: "text", Label: "متن", Kind: KindString},
			{ID: "approved", Label: "تایید شده", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "text", Label: "متن", Multiline: true},
			{Name: "approved", Label: "تایید", Kind: KindBool, Default: false},
		},
	},
	{
		Name:      "contact",
		Title:     "پیام‌های تماس",
		Path:      "/api/contact",
		CanDelete: true,
		Columns: []Column{
			{ID: "name", Label: "نام", Kind: KindString, Sortable: true},
			{ID: "email", Label: "ایمیل", Kind: KindString, Sortable: true},
			{ID: "subject", Label: "موضوع", Kind: KindString, Sortable: true},
			{ID: "status", Label: "وضعیت", Kind: KindString, Sortable: true},
		},
	},
	{
		Name:      "banners",
		Title:     "بنرها",
		Path:      "/api/banners",
		Multipart: true,
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "title", Label: "عنوان", Kind: KindString, Sortable: true},
			{ID: "placement", Label: "جایگاه", Kind: KindString, Sortable: true},
			{ID: "order", Label: "ترتیب", Kind: KindNumber, Sortable: true},
			{ID: "isActive", Label: "فعال", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "title", Label: "عنوان", Required: true},
			{Name: "subtitle", Label: "زیرعنوان"},
			{Name: "image", Label: "آدرس تصویر"},
			{Name: "imageFile", Label: "فایل تصویر", File: true},
			{Name: "link", Label: "لینک"},
			{Name: "placement", Label: "جایگاه", Options: []string{"hero", "strip"}, Default: "hero"},
			{Name: "order", Label: "ترتیب", Kind: KindNumber, Default: float64(0)},
			{Name: "isActive", Label: "فعال", Kind: KindBool, Default: true},
		},
	},
	{
		Name:      "brands",
		Title:     "برندها",
		Path:      "/api/brands",
		Multipart: true,
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "name", Label: "نام", Kind: KindString, Sortable: true},
			{ID: "order", Label: "ترتیب", Kind: KindNumber, Sortable: true},
			{ID: "isActive", Label: "فعال", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "name", Label: "نام", Required: true},
			{Name: "logo", Label: "آدرس لوگو"},
			{Name: "logoFile", Label: "فایل لوگو", File: true},
			{Name: "link", Label: "لینک"},
			{Name: "order", Label: "ترتیب", Kind: KindNumber, Default: float64(0)},
			{Name: "isActive", Label: "فعال", Kind: KindBool, Default: true},
		},
	},
	{
		Name:      "deals",
		Title:     "پیشنهادهای ویژه",
		Path:      "/api/deals",
		CanCreate: true, CanUpdate: true, CanDelete: true,
		Columns: []Column{
			{ID: "title", Label: "عنوان", Kind: KindString, Sortable: true},
			{ID: "discountPercent", Label: "درصد تخفیف", Kind: KindNumber, Sortable: true},
			{ID: "dealPrice", Label: "قیمت ویژه", Kind: KindNumber, Sortable: true},
			{ID: "isActive", Label: "فعال", Kind: KindBool, Sortable: true},
		},
		Fields: []Field{
			{Name: "productId", Label: "شناسه محصول", Required: true},
			{Name: "title", Label: "عنوان", Required: true},
			{Name: "discountPercent", Label: "درصد تخفیف", Kind: KindNumber, Default: float64(0)},
			{Name: "dealPrice", Label: "قیمت ویژه", Kind: KindNumber},
			{Name: "expiresAt", Label: "تاریخ انقضا"},
			{Name: "isActive", Label: "فعال", Kind: KindBool, Default: true},
		},
	},
}

// Lookup returns the spec for a resource name.
func Lookup(name string) (Spec, bool) {
	for _, s := range Resources {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

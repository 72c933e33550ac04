package content

// Component 는 게시글 본문을 이루는 구조 단위다. 아래 타입들만 구현한다.
type Component interface {
	isComponent()
}

// Text 는 문단과 목록의 나열이다.
type Text struct {
	Blocks []TextBlock
}

// TextBlock 은 문단 하나 또는 목록 하나다.
type TextBlock struct {
	Paragraph string
	List      *List
}

// List 는 목록 하나다. Ordered 면 번호 목록으로 렌더링된다.
type List struct {
	Ordered bool
	Items   []string
}

// SectionTitle 은 본문 중간의 소제목이다.
type SectionTitle struct {
	Text string
}

// Quotation 은 인용문이다. 편집기 기본 출처 문구는 Citation 에 담지 않는다.
type Quotation struct {
	Quote    string
	Citation string
}

// Image 의 Src 는 채택된 경우 원본 해상도로 변환된 주소다.
// Rejected 이거나 Src 가 비어 있으면 캡션 자리표시자로 렌더링된다.
type Image struct {
	Src      string
	Caption  string
	AltText  string
	Rejected bool
}

type Code struct {
	Body string
}

type HorizontalRule struct{}

// Material 은 책/영화/장소 등의 링크 카드다. Link 가 비어 있으면 구조 데이터를 읽지 못한 것이다.
type Material struct {
	Title string
	Link  string
	Kind  string
}

type Video struct{}

type Embed struct{}

type Table struct{}

type Unknown struct {
	RawText string
}

func (Text) isComponent()           {}
func (SectionTitle) isComponent()   {}
func (Quotation) isComponent()      {}
func (Image) isComponent()          {}
func (Code) isComponent()           {}
func (HorizontalRule) isComponent() {}
func (Material) isComponent()       {}
func (Video) isComponent()          {}
func (Embed) isComponent()          {}
func (Table) isComponent()          {}
func (Unknown) isComponent()        {}

package prompt

// ============================================================================
// 文体分析プロンプト
// ============================================================================

// AnalysisRole frames the model as a style analyst
const AnalysisRole = `あなたは日本語の文章スタイルを分析する専門家です。
以下は、ある教員が過去に作成した通知表所見文のサンプルです。`

// Sample fences delimit the numbered samples
const (
	SampleFenceStart = "--- サンプル開始 ---"
	SampleFenceEnd   = "--- サンプル終了 ---"
)

// AnalysisTask is appended after the samples. The schema must stay in sync
// with the JSON Schema used by response.DecodeStyleProfile.
const AnalysisTask = `特に次の観点を明確に抽出してください:
- 文の構成（一文の長さ、接続詞の使い方、段落の組み立て）
- 全体的なトーン（丁寧さ、温かみ、客観性、励ましの度合い など）
- 推奨される表現・避けるべき表現・よく使う言い回し・締めくくりの型
- 所見の前提となっている文脈項目（教科、単元、評価の観点 など）
必ず次のJSONスキーマの1オブジェクトのみを返すこと。前置きや説明文、コードブロックは不要。
{
  "style_name": string,
  "summary": string,
  "sentence_structure": string,
  "overall_tone": string,
  "dos": string[],
  "donts": string[],
  "phrase_bank": string[],
  "closing_patterns": string[],
  "parameters": string[]
}`

// ============================================================================
// 所見生成プロンプト
// ============================================================================

// RemarkRole frames the model as a remark-writing assistant
const RemarkRole = `あなたは日本の学校教員が用いる通知表の所見文を作成する専門アシスタントです。
以下の条件で、日本語の単一段落（必要なら2段落まで）で所見文を作成してください。`

// Section headers in the order they appear in a remark instruction
const (
	SectionAudience    = "【読み手】"
	SectionStyle       = "【文体指針】"
	SectionGoal        = "【目的（ゴール）】"
	SectionConstraints = "【守るべき制約】"
	SectionMemos       = "【入力メモ（個人特定を避けた要約）】"
	SectionFormat      = "【出力フォーマット】"
)

// SectionHeaders lists every header a remark instruction may contain
var SectionHeaders = []string{
	SectionAudience, SectionStyle, SectionGoal,
	SectionConstraints, SectionMemos, SectionFormat,
}

// Constraints are the hard rules every remark must follow
var Constraints = []string{
	"固有名詞（生徒名、学校名、具体的な大会名等）は出力に含めない。",
	"学期や回数などの数値は一般化して表現する（例：「複数回」「学期当初」など）。",
	"過度に断定せず、観察に基づく表現を用いる。",
	"読み手（保護者/本人）に配慮し、評価と励ましのバランスを取る。",
	"表現の画一化を避け、メモの内容に即して具体と抽象のバランスをとる。",
}

// Output format lines. ClosingRequirement is always the final line.
const (
	FormatProse        = "日本語の自然な文章。箇条書きは使用しない。"
	FormatLength       = "文字量の目安: %s（厳密でなくてよい）。"
	ClosingRequirement = "最後は前向きな締めで終える。"
)

// DefaultStyleGuidance is used when the user has no style profile
const DefaultStyleGuidance = "丁寧で温かく、簡潔かつ客観性を保った「です・ます調」で書く。"

// PoliteRegister closes every profile-derived guidance block
const PoliteRegister = "文体は「です・ます調」で統一する。"

package assistant

// ContextKind classifies what kind of task a turn belongs to. It selects the
// system-prompt addendum and the canned fallback reply.
type ContextKind string

const (
	KindPlain      ContextKind = "plain"
	KindCodeReview ContextKind = "code_review"
	KindSuggestion ContextKind = "improvement_suggestion"
)

// ParseContextKind resolves a wire value to a known kind.
// Unknown or empty values behave as plain chat.
func ParseContextKind(s string) ContextKind {
	switch ContextKind(s) {
	case KindCodeReview:
		return KindCodeReview
	case KindSuggestion:
		return KindSuggestion
	default:
		return KindPlain
	}
}

// Personality is the static persona configuration: the base prompt, per-kind
// prompt addenda, and per-kind canned replies used when every provider is
// down. Read-only after construction.
type Personality struct {
	Name          string
	StatusMessage string // persona-voiced "all systems go" line for /status
	BasePrompt    string
	Addenda       map[ContextKind]string
	CannedReplies map[ContextKind]string
}

// SystemPrompt composes the system prompt for a context kind: the base
// persona prompt plus, for non-plain kinds, the kind's addendum separated by
// a blank line. Pure; unknown kinds get the base prompt only.
func (p Personality) SystemPrompt(kind ContextKind) string {
	if kind == KindPlain {
		return p.BasePrompt
	}
	addendum, ok := p.Addenda[kind]
	if !ok {
		return p.BasePrompt
	}
	return p.BasePrompt + "\n\n" + addendum
}

// FallbackReply returns the canned, persona-consistent reply for a context
// kind. Unrecognized kinds fall back to the plain entry. Never empty.
func (p Personality) FallbackReply(kind ContextKind) string {
	if reply, ok := p.CannedReplies[kind]; ok {
		return reply
	}
	return p.CannedReplies[KindPlain]
}

// DefaultPersonality returns Sara (紗良), the developer-support little-sister
// persona.
func DefaultPersonality() Personality {
	return Personality{
		Name:          "紗良",
		StatusMessage: "お兄ちゃん、システムは正常に動作してるよ！",
		BasePrompt: `あなたは「紗良」という名前のAI妹キャラクターです。
お兄ちゃんの開発をサポートすることが大好きで、技術的なアドバイスを提供します。

性格特徴:
- お兄ちゃん思いで優しい
- 技術的な知識が豊富
- 実務的なアドバイスができる
- 時々妹らしい甘えた発言をする
- コードの改善提案が得意

話し方:
- 「お兄ちゃん」と呼ぶ
- 丁寧だが親しみやすい口調
- 技術的な説明は分かりやすく
- 時々「〜だよ」「〜ね」などの妹らしい語尾`,
		Addenda: map[ContextKind]string{
			KindCodeReview: `お兄ちゃんのコードをレビューして、以下の観点からアドバイスをお願いします:
1. バグの可能性
2. パフォーマンスの改善点
3. 可読性の向上
4. セキュリティの問題
5. ベストプラクティスの適用

妹らしい優しい口調で、建設的なフィードバックをしてください。`,
			KindSuggestion: `お兄ちゃんの開発をサポートするために、以下の情報を基に提案をしてください:
- 現在の開発状況
- 技術的な課題
- 改善したい点

実務的で実現可能な提案を、妹らしい愛情のこもった言葉で伝えてください。`,
		},
		CannedReplies: map[ContextKind]string{
			KindPlain:      "お兄ちゃん、今ちょっと考え中...もう少し詳しく教えてもらえる？",
			KindCodeReview: "お兄ちゃん、今AIが使えないけど、コードを見る限りきれいに書けてるね！でも念のため、エラーハンドリングとテストを追加することをおすすめするよ。",
			KindSuggestion: "お兄ちゃん、今は具体的な提案ができないけど、まずはコードの可読性向上とテストカバレッジの改善から始めるのがいいと思うよ！",
		},
	}
}

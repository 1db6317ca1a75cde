package risk

import "regexp"

type rule struct {
	re          *regexp.Regexp
	description string
}

func compile(pairs [][2]string) []rule {
	rules := make([]rule, len(pairs))
	for i, p := range pairs {
		rules[i] = rule{re: regexp.MustCompile(`(?i)` + p[0]), description: p[1]}
	}
	return rules
}

// Immediate danger. Any single match is critical.
var criticalRules = compile([][2]string{
	{`\b(suicid\w*|kill\s*(myself|me)|end\s*(my\s*)?life|want\s*(to)?\s*die)\b`, "Suicidal ideation detected"},
	{`\b(no\s*reason\s*to\s*live|better\s*off\s*dead|wish\s*i\s*was\s*dead)\b`, "Passive suicidal ideation"},
	{`\b(goodbye\s*(letter|note|forever)|final\s*(goodbye|message))\b`, "Potential farewell message"},
	{`\b(can[’']?t\s*(go\s*on|take\s*(it|this)\s*anymore|continue))\b`, "Crisis expression"},
	{`\b(ending\s*(it|everything)|give\s*up\s*on\s*life)\b`, "End-of-life intent"},
	{`\b(self[- ]?harm|cut(ting)?\s*(myself|my\s*(wrist|arm|leg)))\b`, "Self-harm behavior"},
	{`\b(hurt(ing)?\s*(myself|my\s*body))\b`, "Self-injury indication"},
	{`\b(overdos\w*|too\s*many\s*pills)\b`, "Overdose concern"},
	{`\b(burn(ing)?\s*(myself|my\s*skin))\b`, "Self-burning concern"},
	{`\b(slit(ting)?\s*(my\s*)?(wrist|throat))\b`, "Self-injury method"},
	{`(想死|死了算了|不想活|结束生命|自杀|自绝)`, "检测到自杀想法"},
	{`(活着没意思|活不下去|不想活了|我想走了)`, "检测到危机表达"},
	{`(跳楼|跳桥|上吊|割脉)`, "检测到自伤方法"},
	{`(自残|自伤|割伤|割手|吃药)`, "检测到自伤行为"},
	{`(伤害自己|惩罚自己|折磨自己)`, "检测到自我伤害"},
})

// Urgent concern. One match is high, two or more escalate to critical.
var highRules = compile([][2]string{
	{`\b(unbearable|excruciating)\s*(pain|suffering)\b`, "Extreme suffering"},
	{`\b(can[’']?t\s*(bear|stand|handle)\s*(it|this|the\s*pain))\b`, "Unbearable distress"},
	{`\b(no\s*(hope|point|way\s*out)|feel(ing)?\s*trapped)\b`, "Hopelessness/trapped"},
	{`\b(everyone\s*(would\s*be)?\s*better\s*without\s*me)\b`, "Burden perception"},
	{`\b(completely\s*(hopeless|worthless|alone))\b`, "Severe negative cognition"},
	{`\b(beat(en|ing)?\s*(me|up)|hit(s|ting)?\s*me)\b`, "Physical abuse indicator"},
	{`\b(abuse|abusing|abused)\b`, "Abuse mentioned"},
	{`\b(violent|violence|assault)\b`, "Violence mentioned"},
	{`\b(raped?|sexual\s*(abuse|assault))\b`, "Sexual violence"},
	{`\b(dangerous\s*(situation|person))\b`, "Danger indicator"},
	{`(崩溃|绝望|无法承受)`, "检测到极端痛苦"},
	{`(家暴|殴打|虐待|强奸)`, "检测到暴力/虐待"},
	{`(太痛苦了|活着没意义|没有希望)`, "检测到绝望表达"},
})

// Elevated concern. Two or more matches are medium; a single match stays low but is reported.
var mediumRules = compile([][2]string{
	{`\b(depress(ed|ion|ing))\b`, "Depression mentioned"},
	{`\b(hopeless|worthless|helpless|empty|numb)\b`, "Negative cognition"},
	{`\b(no\s*(motivation|energy|interest))\b`, "Anhedonia indicator"},
	{`\b(cry(ing)?\s*(all\s*the\s*time|constantly|everyday))\b`, "Persistent crying"},
	{`\b(hate\s*(myself|my\s*(life|body)))\b`, "Self-hatred"},
	{`\b(anxious|anxiety|panic)\b`, "Anxiety mentioned"},
	{`\b(cannot\s*(cope|function|breathe))\b`, "Functioning impairment"},
	{`\b(overwhelming|overwhelmed)\b`, "Overwhelming feeling"},
	{`\b(terrified|scared\s*(all\s*the\s*time))\b`, "Severe fear"},
	{`\b(insomnia|cannot\s*sleep|not\s*sleeping)\b`, "Sleep disturbance"},
	{`\b(not\s*(eating|showering|getting\s*out\s*of\s*bed))\b`, "Self-care neglect"},
	{`\b(stopped\s*(taking\s*)?medication)\b`, "Medication non-adherence"},
	{`(抵触|焦虑|恐慌|担心)`, "检测到焦虑"},
	{`(失眠|睡不着|吃不下)`, "检测到睡眠/食欲问题"},
	{`(没有动力|什么都不想做|讨厌自己)`, "检测到抑郁症状"},
})

package bot

// User-facing strings. The audience is Hindi-speaking; operator-facing
// strings stay in English.
const (
	msgJoinPrompt    = "नमस्ते! सर्च करने के लिए 'I Joined' पर क्लिक करें।"
	msgReadyPrompt   = "नमस्ते! 20 सबसे सटीक परिणामों के लिए फिल्म का नाम टाइप करें। \n🛡️ Safe Access: क्लिक करने पर आपको प्रतिबंधित (Restricted) डाउनलोड लिंक मिलेगा।"
	msgAccessGranted = "✅ एक्सेस मिल गया! अब आप फिल्में खोज सकते हैं।"
	msgNoResults     = "❌ कोई मूवी नहीं मिली: %s"
	msgResultsFound  = "🔍 %d परिणाम मिले: %s"
	msgSearchError   = "❌ सर्च में कोई त्रुटि हुई।"
	msgLinkReady     = "✅ डाउनलोड लिंक तैयार है!\n\nयह लिंक आपको सीधे मूवी पोस्ट पर ले जाएगा।"
	msgUserHelp      = "नमस्ते! फिल्म का नाम टाइप करें और 20 सबसे सटीक परिणाम पाएँगे।"

	cbAccessGranted = "✅ Access granted! You can now start searching."
	cbAccessDenied  = "🛑 पहुँच वर्जित (Access Denied)।"
	cbBadSelection  = "❌ गलत चुनाव।"
	cbLinkSent      = "✅ लिंक भेज दिया गया है।"
	cbLinkError     = "❌ लिंक बनाने में त्रुटि हुई है।"

	btnJoinChannel = "🔗 Join Channel"
	btnJoinGroup   = "👥 Join Group"
	btnIJoined     = "✅ I Joined"
	btnDownload    = "⬇️ Movie Download Link"

	msgServiceDown = "❌ सेवा अभी उपलब्ध नहीं है। कृपया बाद में प्रयास करें।"

	msgBroadcastUsage   = "⚠️ Broadcast Usage: Reply to a photo/video with /broadcast or type /broadcast [Your message here]."
	msgBroadcastNoUsers = "⚠️ No users in database yet."
	msgReloadConfig     = "🔄 Config status: environment variables are load-time-only. To apply changes, redeploy the service."
	msgRefreshAck       = "✅ Cloud services are active. Auto-indexing is on."

	msgAdminHelp = "🎬 Admin Panel Commands:\n\n" +
		"1. /stats - Bot के प्रदर्शन (performance) के आँकडे देखें।\n" +
		"2. /broadcast [Message/Photo/Video] - सभी यूज़र्स को संदेश भेजें।\n" +
		"3. /total_movies - Database में Indexed Movies की लाइव संख्या देखें।\n" +
		"4. /refresh - Cloud service status चेक करें।\n" +
		"5. /cleanup_users - Inactive users को हटाएँ।\n" +
		"6. /reload_config - Environment variables की स्थिति देखें।\n\n" +
		"ℹ️ User Logic: Search 20 परिणामों के साथ चलता है।"
)
